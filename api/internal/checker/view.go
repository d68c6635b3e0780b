package checker

import "aidvision/api/internal/guide/types"

const (
	SubmitLabel  = "Get First-Aid Guide"
	LoadingLabel = "Analyzing..."
)

// Badge variants follow the severity: critical is destructive, urgent a warning, minor an accent.
const (
	VariantDestructive = "destructive"
	VariantWarning     = "warning"
	VariantAccent      = "accent"
	VariantOutline     = "outline"
)

type Badge struct {
	Text    string
	Variant string
}

type Alert struct {
	Title       string
	Description string
}

var helpAlert = Alert{
	Title:       "Seek Professional Help Immediately",
	Description: "Based on the provided information, we strongly recommend seeking professional medical attention. This guide is for immediate first-aid only.",
}

// View is everything a front end needs to draw one form.
type View struct {
	Phase          Phase
	SubmitDisabled bool
	SubmitLabel    string
	Spinner        bool
	FieldError     string
	Preview        string

	Badge         *Badge
	Steps         []string
	PhotoIncluded bool
	HelpAlert     *Alert
	Notice        *Notice
}

// Render maps a state and the pending image onto a View.
func Render(st State, photo string) View {
	v := View{
		Phase:          st.Phase,
		SubmitDisabled: st.Phase == PhaseLoading,
		SubmitLabel:    SubmitLabel,
		Spinner:        st.Phase == PhaseLoading,
		Preview:        photo,
	}
	if v.Spinner {
		v.SubmitLabel = LoadingLabel
	}
	if st.FieldError != nil {
		v.FieldError = st.FieldError.Message
	}
	switch st.Phase {
	case PhaseResult:
		if st.Guide == nil {
			break
		}
		b := SeverityBadge(st.Guide.Severity)
		v.Badge = &b
		v.Steps = append([]string(nil), st.Guide.Steps...)
		v.PhotoIncluded = st.PhotoIncluded
		if st.Guide.ProfessionalHelpNeeded {
			a := helpAlert
			v.HelpAlert = &a
		}
	case PhaseError:
		v.Notice = st.Notice
	}
	return v
}

func SeverityBadge(s types.Severity) Badge {
	b := Badge{Text: string(s), Variant: VariantOutline}
	switch s {
	case types.SeverityCritical:
		b.Variant = VariantDestructive
	case types.SeverityUrgent:
		b.Variant = VariantWarning
	case types.SeverityMinor:
		b.Variant = VariantAccent
	}
	return b
}
