package checker

import "aidvision/api/internal/guide/types"

// Phase is the user-visible state of one form.
type Phase int

const (
	// PhaseIdle: form editable, nothing shown.
	PhaseIdle Phase = iota
	// PhaseLoading: a submission is in flight, submit disabled.
	PhaseLoading
	// PhaseResult: the last submission produced a guide.
	PhaseResult
	// PhaseError: idle with a failure notice; the form stays usable.
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseResult:
		return "result"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Editable reports whether the form accepts edits and a new submission.
func (p Phase) Editable() bool { return p != PhaseLoading }

// State is a snapshot of a form. Guide is set only in PhaseResult and Notice only in PhaseError.
type State struct {
	Phase Phase
	Guide *types.GuideResponse
	// FieldError is an inline validation message; it never changes the phase.
	FieldError *types.ValidationError
	Notice     *Notice
	// SubmissionID identifies the last submission in logs.
	SubmissionID string
	// PhotoIncluded reports that the result was produced with an image attached.
	PhotoIncluded bool
}

// Notice is the generic, non-blocking failure notification.
type Notice struct {
	Title       string
	Description string
}

var failedNotice = Notice{
	Title:       "An error occurred",
	Description: "Failed to get first-aid guide. Please try again.",
}
