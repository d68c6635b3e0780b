package checker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/logger"
)

var ErrBusy = errors.New("a submission is already in progress")

// Generator is the guide-request service as the form sees it.
type Generator interface {
	GenerateGuide(ctx context.Context, req types.GuideRequest) (types.GuideResponse, error)
}

// Notifier receives one call per failed submission.
type Notifier func(Notice)

// Form is one instance of the symptom checker. It owns the pending image and the phase,
// and allows a single submission in flight.
type Form struct {
	gen           Generator
	log           *logger.Logger
	notify        Notifier
	maxImageBytes int
	singleUse     bool

	mu    sync.Mutex
	photo string
	state State
}

type Option func(*Form)

func WithLogger(l *logger.Logger) Option { return func(f *Form) { f.log = l } }

func WithNotifier(n Notifier) Option { return func(f *Form) { f.notify = n } }

// WithMaxImageBytes caps the decoded size of a selected image; 0 means no cap.
func WithMaxImageBytes(n int) Option { return func(f *Form) { f.maxImageBytes = n } }

// WithSingleUsePhoto drops the pending image once a submission carrying it starts,
// so a later description never picks up an old photo.
func WithSingleUsePhoto() Option { return func(f *Form) { f.singleUse = true } }

func New(gen Generator, opts ...Option) *Form {
	f := &Form{gen: gen, log: logger.Nop()}
	for _, o := range opts {
		o(f)
	}
	return f
}

// State returns a copy of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Photo returns the pending image data URI, or "" when none is selected.
func (f *Form) Photo() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.photo
}

// SelectImage stores a data URI for the preview and the next request.
func (f *Form) SelectImage(dataURI string) error {
	if err := types.ValidatePhoto("photo", dataURI, f.maxImageBytes); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photo = dataURI
	return nil
}

// RemoveImage clears the preview and the payload.
func (f *Form) RemoveImage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photo = ""
}

// Request builds the payload the next submission would send.
func (f *Form) Request(description string) types.GuideRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return types.GuideRequest{Description: description, PhotoDataURI: f.photo}
}

// Submit validates the description and, if it passes, runs one submission to completion.
// An invalid description leaves the phase untouched and sets FieldError; no call is made.
// A submission while another is in flight returns ErrBusy.
func (f *Form) Submit(ctx context.Context, description string) (State, error) {
	req := f.Request(description)
	if err := req.Validate(); err != nil {
		var ve *types.ValidationError
		if !errors.As(err, &ve) {
			ve = &types.ValidationError{Field: "description", Message: err.Error()}
		}
		f.mu.Lock()
		if f.state.Phase == PhaseLoading {
			f.mu.Unlock()
			return State{}, ErrBusy
		}
		f.state.FieldError = ve
		st := f.state
		f.mu.Unlock()
		return st, err
	}

	f.mu.Lock()
	if f.state.Phase == PhaseLoading {
		f.mu.Unlock()
		return State{}, ErrBusy
	}
	id := uuid.NewString()
	// A new submission clears the previous result right away.
	f.state = State{Phase: PhaseLoading, SubmissionID: id}
	withPhoto := req.PhotoDataURI != ""
	if f.singleUse && withPhoto && f.photo == req.PhotoDataURI {
		f.photo = ""
	}
	f.mu.Unlock()

	log := f.log.With("submission_id", id)
	log.Info("submission started", "description_len", len(req.Description), "has_photo", req.PhotoDataURI != "")

	out, err := f.gen.GenerateGuide(ctx, req)

	var ve *types.ValidationError
	f.mu.Lock()
	switch {
	case errors.As(err, &ve):
		// Rejected by the service before any provider call.
		f.state = State{Phase: PhaseIdle, FieldError: ve, SubmissionID: id}
	case err != nil:
		n := failedNotice
		f.state = State{Phase: PhaseError, Notice: &n, SubmissionID: id}
	default:
		f.state = State{Phase: PhaseResult, Guide: &out, SubmissionID: id, PhotoIncluded: withPhoto}
	}
	st := f.state
	f.mu.Unlock()

	if ve != nil {
		log.Warn("submission rejected", "field", ve.Field, "error", ve.Message)
		return st, err
	}
	if err != nil {
		log.Error("AI error", "error", err)
		if f.notify != nil {
			f.notify(*st.Notice)
		}
		return st, err
	}
	log.Info("submission finished", "severity", out.Severity, "steps", len(out.Steps))
	return st, nil
}

// Reset returns the form to Idle and drops the pending image.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Phase == PhaseLoading {
		return
	}
	f.state = State{}
	f.photo = ""
}
