package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/service"
	"vighnaharta-backend/internal/utils"
)

// Handlers serves the festival JSON API.
type Handlers struct {
	Participants service.ParticipantService
	Moderation   service.ModerationService
	Messages     service.MessageService
	Auth         service.AuthService
	Organizers   *service.OrganizerDirectory

	// MaxPassBytes is the decoded pass image limit used to size save-pass
	// bodies. Zero uses a 10 MiB default.
	MaxPassBytes int64
}

type createParticipantRequest struct {
	Name       string `json:"name"`
	FlatNumber string `json:"flatNumber"`
	ImageURL   string `json:"imageUrl"`
}

type savePassResponse struct {
	Message     string              `json:"message"`
	Participant *domain.Participant `json:"participant"`
}

type createMessageRequest struct {
	Text          string `json:"text"`
	Organizer     string `json:"organizer"`
	OrganizerRole string `json:"organizerRole"`
}

type loginRequest struct {
	Passphrase string `json:"passphrase"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 0
	}
	return page
}

// HandleListParticipants handles GET /api/participants
func (h *Handlers) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	list, err := h.Participants.List(r.Context())
	SendListing(w, r, list, err, []domain.Participant{})
}

// HandleCreateParticipant handles POST /api/participants
func (h *Handlers) HandleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req createParticipantRequest
	if err := decodeJSON(w, r, &req, passBodyLimit(h.MaxPassBytes)); err != nil {
		SendError(w, r, err)
		return
	}
	p, err := h.Participants.Create(r.Context(), req.Name, req.FlatNumber, req.ImageURL)
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusCreated, p)
}

// HandleSavePass handles POST /api/save-pass
func (h *Handlers) HandleSavePass(w http.ResponseWriter, r *http.Request) {
	var req domain.PassSubmission
	if err := decodeJSON(w, r, &req, passBodyLimit(h.MaxPassBytes)); err != nil {
		SendError(w, r, err)
		return
	}
	p, err := h.Participants.SavePass(r.Context(), req)
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, savePassResponse{Message: "Pass and participant saved successfully", Participant: p})
}

// HandleUpdatePass handles PUT /api/save-pass
func (h *Handlers) HandleUpdatePass(w http.ResponseWriter, r *http.Request) {
	var req domain.PassSubmission
	if err := decodeJSON(w, r, &req, passBodyLimit(h.MaxPassBytes)); err != nil {
		SendError(w, r, err)
		return
	}
	p, err := h.Participants.UpdatePass(r.Context(), req.ID, req)
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, savePassResponse{Message: "Pass and participant updated successfully", Participant: p})
}

// HandleGallery handles GET /api/gallery?page=N
func (h *Handlers) HandleGallery(w http.ResponseWriter, r *http.Request) {
	page, err := h.Participants.Gallery(r.Context(), pageParam(r))
	SendListing(w, r, page, err, utils.Paginate([]domain.Participant{}, 0, utils.GalleryPageSize))
}

// HandleListPending handles GET /api/admin/participants/pending
func (h *Handlers) HandleListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.Moderation.ListPending(r.Context())
	SendListing(w, r, list, err, []domain.Participant{})
}

// HandleApprove handles PUT /api/approve-participant/{id}
func (h *Handlers) HandleApprove(w http.ResponseWriter, r *http.Request) {
	p, err := h.Moderation.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, p)
}

// HandleReject handles DELETE /api/reject-participant/{id}
func (h *Handlers) HandleReject(w http.ResponseWriter, r *http.Request) {
	if err := h.Moderation.Reject(r.Context(), mux.Vars(r)["id"]); err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, messageResponse{Message: "Participant rejected and removed"})
}

// HandleListMessages handles GET /api/messages
func (h *Handlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	list, err := h.Messages.List(r.Context())
	SendListing(w, r, list, err, []domain.Message{})
}

// HandleGroupedMessages handles GET /api/messages/grouped
func (h *Handlers) HandleGroupedMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	groups, err := h.Messages.Grouped(r.Context(), q.Get("organizer"), q.Get("role"), pageParam(r))
	SendListing(w, r, groups, err, []service.MessageGroupPage{})
}

// HandleCreateMessage handles POST /api/messages
func (h *Handlers) HandleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := decodeJSON(w, r, &req, jsonBodyLimit); err != nil {
		SendError(w, r, err)
		return
	}
	m, err := h.Messages.Create(r.Context(), req.Text, req.Organizer, req.OrganizerRole)
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusCreated, m)
}

// HandleListOrganizers handles GET /api/organizers
func (h *Handlers) HandleListOrganizers(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, h.Organizers.List())
}

// HandleAdminLogin handles POST /api/admin/login
func (h *Handlers) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, jsonBodyLimit); err != nil {
		SendError(w, r, err)
		return
	}
	token, expires, err := h.Auth.Login(r.Context(), req.Passphrase)
	if err != nil {
		SendError(w, r, err)
		return
	}
	SendJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}

// HandleHealth handles GET /healthz
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
