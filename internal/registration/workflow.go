// Package registration drives the photo pass registration flow on the client:
// capture or upload a photo, fill in details, compose the pass and submit it.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vighnaharta-backend/internal/client"
	"vighnaharta-backend/internal/domain"
	"vighnaharta-backend/internal/logger"
	"vighnaharta-backend/internal/pass"
	"vighnaharta-backend/internal/utils"
)

type State int

const (
	StateInitial State = iota
	StateCapturing
	StateForm
	StateGenerated
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateCapturing:
		return "capturing"
	case StateForm:
		return "form"
	case StateGenerated:
		return "generated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrCaptureCancelled = errors.New("capture cancelled")
	ErrInvalidState     = errors.New("invalid registration state")
)

// Device describes the capabilities of the registering device.
type Device struct {
	HasCamera bool
	Mobile    bool
}

// Camera acquires one still image.
type Camera interface {
	Capture(ctx context.Context) ([]byte, error)
}

// Composer renders the pass image.
type Composer interface {
	Compose(photo []byte, name, flatNumber string) (*pass.Pass, error)
}

// PassAPI persists a composed pass.
type PassAPI interface {
	SavePass(ctx context.Context, in domain.PassSubmission) (*domain.Participant, error)
	UpdatePass(ctx context.Context, id string, in domain.PassSubmission) (*domain.Participant, error)
}

// Workflow is the registration state machine. It is not safe for concurrent
// use.
type Workflow struct {
	device Device
	now    func() time.Time

	state      State
	photo      []byte
	name       string
	flatNumber string
	pass       *pass.Pass
}

func NewWorkflow(device Device) *Workflow {
	return &Workflow{device: device, now: time.Now}
}

func (w *Workflow) State() State              { return w.state }
func (w *Workflow) Photo() []byte             { return w.photo }
func (w *Workflow) Pass() *pass.Pass          { return w.pass }
func (w *Workflow) Details() (string, string) { return w.name, w.flatNumber }

func (w *Workflow) invalid(op string) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidState, op, w.state)
}

// StartCapture opens the camera, or goes straight to the form when the
// device has none.
func (w *Workflow) StartCapture() error {
	if w.state != StateInitial {
		return w.invalid("start capture")
	}
	if !w.device.HasCamera {
		w.state = StateForm
		return nil
	}
	w.state = StateCapturing
	return nil
}

// Capture takes a still. Cancelling returns to initial; other failures keep
// the camera open.
func (w *Workflow) Capture(ctx context.Context, camera Camera) error {
	if w.state != StateCapturing {
		return w.invalid("capture")
	}
	photo, err := camera.Capture(ctx)
	if err != nil {
		if errors.Is(err, ErrCaptureCancelled) {
			w.state = StateInitial
			return err
		}
		return domain.NewMediaAccessError("capture", err)
	}
	if len(photo) == 0 {
		return domain.NewMediaAccessError("capture", errors.New("empty frame"))
	}
	w.photo = photo
	w.state = StateForm
	return nil
}

func (w *Workflow) UploadPhoto(data []byte) error {
	if w.state != StateInitial && w.state != StateForm {
		return w.invalid("upload photo")
	}
	if len(data) == 0 {
		return domain.NewValidationError("photo is empty")
	}
	w.photo = append([]byte(nil), data...)
	w.state = StateForm
	return nil
}

func (w *Workflow) RemovePhoto() error {
	if w.state != StateForm {
		return w.invalid("remove photo")
	}
	w.photo = nil
	return nil
}

func (w *Workflow) SetDetails(name, flatNumber string) error {
	if w.state != StateForm {
		return w.invalid("set details")
	}
	w.name, w.flatNumber = name, flatNumber
	return nil
}

// Valid reports whether the form can be turned into a pass. A photo is only
// optional on devices without a camera.
func (w *Workflow) Valid() bool {
	if strings.TrimSpace(w.name) == "" || strings.TrimSpace(w.flatNumber) == "" {
		return false
	}
	return len(w.photo) > 0 || !w.device.HasCamera
}

// Generate composes the pass. On failure the form is left as it was.
func (w *Workflow) Generate(composer Composer) error {
	if w.state != StateForm {
		return w.invalid("generate")
	}
	if !w.Valid() {
		return domain.NewValidationError("name, flat number and photo are required")
	}
	p, err := composer.Compose(w.photo, strings.TrimSpace(w.name), strings.TrimSpace(w.flatNumber))
	if err != nil {
		if errors.Is(err, domain.ErrMediaAccess) {
			return err
		}
		return domain.NewMediaAccessError("compose pass", err)
	}
	w.pass = p
	w.state = StateGenerated
	return nil
}

// Submit saves the generated pass. A participant already in view with the
// same name and flat is updated instead of created. On failure neither the
// workflow nor the view changes.
func (w *Workflow) Submit(ctx context.Context, api PassAPI, view *client.View) (*domain.Participant, error) {
	if w.state != StateGenerated || w.pass == nil {
		return nil, w.invalid("submit")
	}
	name, flat := strings.TrimSpace(w.name), strings.TrimSpace(w.flatNumber)
	in := domain.PassSubmission{
		ImageData:  w.pass.DataURL,
		Filename:   utils.PassFilename(name, flat, w.now()),
		Name:       name,
		FlatNumber: flat,
	}

	var (
		saved *domain.Participant
		err   error
	)
	if existing, ok := view.FindByIdentity(name, flat); ok {
		saved, err = api.UpdatePass(ctx, existing.ID, in)
	} else {
		saved, err = api.SavePass(ctx, in)
	}
	if err != nil {
		logger.Warn("Pass submission failed", "name", name, "flatNumber", flat, "error", err)
		return nil, err
	}

	view.Upsert(*saved)
	logger.Info("Pass submitted", "id", saved.ID, "imageUrl", saved.ImageURL)
	return saved, nil
}

// Reset clears everything and returns to initial.
func (w *Workflow) Reset() {
	w.state = StateInitial
	w.photo = nil
	w.name, w.flatNumber = "", ""
	w.pass = nil
}
