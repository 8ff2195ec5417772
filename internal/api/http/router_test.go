package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/repository/bolt"
	"vighnaharta-backend/internal/security"
	"vighnaharta-backend/internal/service"
	"vighnaharta-backend/internal/storage"
)

const testPassphrase = "ganpati-bappa"

type testEnv struct {
	router   http.Handler
	store    *bolt.Store
	handlers *Handlers
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store, err := bolt.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	images, err := storage.NewLocalStorageService(storage.Config{Dir: filepath.Join(dir, "passes"), PublicPrefix: "/passes"})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassphrase), bcrypt.MinCost)
	require.NoError(t, err)
	email := service.NewNoopEmailService()
	directory := service.NewOrganizerDirectory([]domain.Organizer{{Name: "Priya", Role: "Cultural Secretary"}})

	h := &Handlers{
		Participants: service.NewParticipantService(store.Participants(), images, email, "", 10),
		Moderation:   service.NewModerationService(store.Participants(), images),
		Messages:     service.NewMessageService(store.Messages(), directory, email, 4),
		Auth:         service.NewAuthService(string(hash), security.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)),
		Organizers:   directory,
	}
	return &testEnv{router: NewRouter(h, images, "/passes"), store: store, handlers: h}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"passphrase": testPassphrase})
	require.Equal(t, http.StatusOK, rec.Code)
	var out loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func submission(name, flat, file string) domain.PassSubmission {
	return domain.PassSubmission{
		ImageData:  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-"+name)),
		Filename:   file,
		Name:       name,
		FlatNumber: flat,
	}
}

func TestRouter_RegistrationAndModerationScenario(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/save-pass", "", submission("Asha", "12B", "asha.png"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	asha := decodeBody[savePassResponse](t, rec).Participant
	assert.Equal(t, "/passes/asha.png", asha.ImageURL)
	assert.False(t, asha.IsApproved)

	rec = env.do(t, http.MethodPost, "/api/save-pass", "", submission("Neev", "7", "neev.png"))
	require.Equal(t, http.StatusOK, rec.Code)
	neev := decodeBody[savePassResponse](t, rec).Participant

	all := decodeBody[[]domain.Participant](t, env.do(t, http.MethodGet, "/api/participants", "", nil))
	require.Len(t, all, 2)
	assert.Equal(t, asha.ID, all[0].ID)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPut, "/api/approve-participant/"+asha.ID, "", nil).Code)

	token := env.login(t)
	rec = env.do(t, http.MethodPut, "/api/approve-participant/"+asha.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[domain.Participant](t, rec).IsApproved)

	gallery := decodeBody[struct {
		Items      []domain.Participant `json:"items"`
		TotalPages int                  `json:"totalPages"`
	}](t, env.do(t, http.MethodGet, "/api/gallery?page=0", "", nil))
	require.Len(t, gallery.Items, 1)
	assert.Equal(t, "Asha", gallery.Items[0].Name)

	pending := decodeBody[[]domain.Participant](t, env.do(t, http.MethodGet, "/api/admin/participants/pending", token, nil))
	require.Len(t, pending, 1)
	assert.Equal(t, neev.ID, pending[0].ID)

	rec = env.do(t, http.MethodDelete, "/api/reject-participant/"+neev.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Participant rejected and removed", decodeBody[messageResponse](t, rec).Message)

	all = decodeBody[[]domain.Participant](t, env.do(t, http.MethodGet, "/api/participants", "", nil))
	require.Len(t, all, 1)
	assert.Equal(t, asha.ID, all[0].ID)

	rec = env.do(t, http.MethodGet, "/passes/asha.png", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-Asha", rec.Body.String())
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/passes/neev.png", "", nil).Code)
}

func TestRouter_ApproveUnknown(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPut, "/api/approve-participant/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Participant not found", decodeBody[messageResponse](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/reject-participant/nope", token, nil).Code)
}

func TestRouter_ResubmissionUpdatesInPlace(t *testing.T) {
	env := newTestEnv(t)

	first := decodeBody[savePassResponse](t, env.do(t, http.MethodPost, "/api/save-pass", "", submission("Asha", "12B", "a1.png"))).Participant
	second := decodeBody[savePassResponse](t, env.do(t, http.MethodPost, "/api/save-pass", "", submission("ASHA", "12b", "a2.png"))).Participant

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "/passes/a2.png", second.ImageURL)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/passes/a1.png", "", nil).Code)

	all := decodeBody[[]domain.Participant](t, env.do(t, http.MethodGet, "/api/participants", "", nil))
	assert.Len(t, all, 1)
}

func TestRouter_UpdatePass(t *testing.T) {
	env := newTestEnv(t)
	p := decodeBody[savePassResponse](t, env.do(t, http.MethodPost, "/api/save-pass", "", submission("Neev", "7", "n1.png"))).Participant

	in := submission("Neev", "8", "n2.png")
	in.ID = p.ID
	rec := env.do(t, http.MethodPut, "/api/save-pass", "", in)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "8", decodeBody[savePassResponse](t, rec).Participant.FlatNumber)

	in.ID = "missing"
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPut, "/api/save-pass", "", in).Code)
}

func TestRouter_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/save-pass", "", submission("", "7", "x.png"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[messageResponse](t, rec).Message, "name is required")

	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"passphrase": "wrong"}).Code)
}

func TestRouter_Messages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/messages", "", map[string]string{"text": "Lovely decor", "organizer": "Priya", "organizerRole": "Cultural Secretary"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[domain.Message](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Timestamp.IsZero())

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/messages", "", nil).Code)

	token := env.login(t)
	list := decodeBody[[]domain.Message](t, env.do(t, http.MethodGet, "/api/messages", token, nil))
	require.Len(t, list, 1)

	groups := decodeBody[[]service.MessageGroupPage](t, env.do(t, http.MethodGet, "/api/messages/grouped?organizer=priya", token, nil))
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].Messages.TotalItems)

	orgs := decodeBody[[]domain.Organizer](t, env.do(t, http.MethodGet, "/api/organizers", "", nil))
	require.Len(t, orgs, 1)
}

func TestRouter_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.store.Close())

	rec := env.do(t, http.MethodGet, "/api/participants", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(domain.DegradedHeader))
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/save-pass", "", submission("Asha", "12B", "a.png"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestRouter_OversizedPassBody(t *testing.T) {
	env := newTestEnv(t)
	env.handlers.MaxPassBytes = 1 << 10
	limit := passBodyLimit(env.handlers.MaxPassBytes)

	in := submission("Asha", "12B", "asha.png")
	in.ImageData = "data:image/png;base64," + strings.Repeat("A", 4<<20)
	payload, err := json.Marshal(in)
	require.NoError(t, err)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		body := &countingReader{r: bytes.NewReader(payload)}
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(method, "/api/save-pass", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.Contains(t, decodeBody[messageResponse](t, rec).Message, "exceeds")
		assert.LessOrEqual(t, body.n, limit+1, method)
	}

	all := decodeBody[[]domain.Participant](t, env.do(t, http.MethodGet, "/api/participants", "", nil))
	assert.Empty(t, all)
}

func TestRouter_RejectKeepsSharedPassImage(t *testing.T) {
	env := newTestEnv(t)
	asha := decodeBody[savePassResponse](t, env.do(t, http.MethodPost, "/api/save-pass", "", submission("Asha", "12B", "asha.png"))).Participant

	rec := env.do(t, http.MethodPost, "/api/participants", "", map[string]string{"name": "Spam", "flatNumber": "0", "imageUrl": asha.ImageURL})
	require.Equal(t, http.StatusCreated, rec.Code)
	spam := decodeBody[domain.Participant](t, rec)

	token := env.login(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/reject-participant/"+spam.ID, token, nil).Code)

	rec = env.do(t, http.MethodGet, "/passes/asha.png", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-Asha", rec.Body.String())
}

// slowParticipants fails every call as if the store timed out.
type slowParticipants struct{}

func (slowParticipants) List(context.Context) ([]domain.Participant, error) {
	return nil, context.DeadlineExceeded
}
func (slowParticipants) Create(context.Context, *domain.Participant) error {
	return context.DeadlineExceeded
}
func (slowParticipants) Update(context.Context, string, domain.ParticipantUpdate) (*domain.Participant, error) {
	return nil, context.DeadlineExceeded
}
func (slowParticipants) SetApproval(context.Context, string, bool) (*domain.Participant, error) {
	return nil, context.DeadlineExceeded
}
func (slowParticipants) Delete(context.Context, string) error {
	return context.DeadlineExceeded
}
func (slowParticipants) FindByIdentity(context.Context, string, string) (*domain.Participant, error) {
	return nil, context.DeadlineExceeded
}

func TestRouter_StoreDeadline(t *testing.T) {
	env := newTestEnv(t)
	images, err := storage.NewLocalStorageService(storage.Config{Dir: t.TempDir(), PublicPrefix: "/passes"})
	require.NoError(t, err)
	env.handlers.Participants = service.NewParticipantService(slowParticipants{}, images, service.NewNoopEmailService(), "", 10)
	env.handlers.Moderation = service.NewModerationService(slowParticipants{}, images)
	token := env.login(t)

	for _, path := range []string{"/api/participants", "/api/gallery?page=0", "/api/admin/participants/pending"} {
		rec := env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "1", rec.Header().Get(domain.DegradedHeader), path)
	}

	writes := []struct {
		method, path string
		body         any
	}{
		{http.MethodPost, "/api/participants", map[string]string{"name": "Asha", "flatNumber": "12B"}},
		{http.MethodPost, "/api/save-pass", submission("Asha", "12B", "asha.png")},
		{http.MethodPut, "/api/approve-participant/p1", nil},
		{http.MethodDelete, "/api/reject-participant/p1", nil},
	}
	for _, w := range writes {
		rec := env.do(t, w.method, w.path, token, w.body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, w.path)
		assert.Equal(t, "Service temporarily unavailable", decodeBody[messageResponse](t, rec).Message)
	}
}

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "", nil).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
