package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"aidvision/api/internal/util"
)

// MinDescriptionLen is the shortest accepted symptom description, in characters.
const MinDescriptionLen = 10

const descriptionTooShort = "Please describe the symptom or injury in at least 10 characters."

// GuideRequest - вход generate-first-aid-guide.
type GuideRequest struct {
	Description  string `json:"description"`
	PhotoDataURI string `json:"photo_data_uri,omitempty"`
}

func (r GuideRequest) Validate() error {
	return validateDescription("description", r.Description)
}

func (r GuideRequest) MediaURI() string { return r.PhotoDataURI }

// AnalyzeRequest - вход analyze-image-for-symptoms.
type AnalyzeRequest struct {
	SymptomDescription string `json:"symptom_description"`
	Image              string `json:"image,omitempty"`
}

func (r AnalyzeRequest) Validate() error {
	return validateDescription("symptom_description", r.SymptomDescription)
}

func (r AnalyzeRequest) MediaURI() string { return r.Image }

func validateDescription(field, v string) error {
	if utf8.RuneCountInString(strings.TrimSpace(v)) < MinDescriptionLen {
		return invalid(field, descriptionTooShort)
	}
	return nil
}

// ValidatePhoto checks a data URI the way the form does before it is attached to a request.
// Empty means "no photo" and is valid.
func ValidatePhoto(field, dataURI string, maxBytes int) error {
	if strings.TrimSpace(dataURI) == "" {
		return nil
	}
	data, mime, err := util.DecodeDataURL(dataURI)
	if err != nil {
		return invalid(field, "image must be a base64 data URI")
	}
	if !util.IsImageMIME(mime) {
		return invalid(field, fmt.Sprintf("unsupported image type %q", mime))
	}
	if len(data) == 0 {
		return invalid(field, "image is empty")
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return invalid(field, fmt.Sprintf("image is larger than %d bytes", maxBytes))
	}
	return nil
}

// GuideResponse - структурированный ответ модели.
type GuideResponse struct {
	Severity               Severity `json:"severity"`
	Steps                  []string `json:"steps"`
	ProfessionalHelpNeeded bool     `json:"professional_help_needed"`
}

var errHelpFlagMissing = errors.New("professional_help_needed is required")

// UnmarshalJSON rejects documents without the referral flag instead of defaulting it to false.
func (g *GuideResponse) UnmarshalJSON(b []byte) error {
	var wire struct {
		Severity               Severity `json:"severity"`
		Steps                  []string `json:"steps"`
		ProfessionalHelpNeeded *bool    `json:"professional_help_needed"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if wire.ProfessionalHelpNeeded == nil {
		return errHelpFlagMissing
	}
	*g = GuideResponse{
		Severity:               Severity(strings.ToLower(strings.TrimSpace(string(wire.Severity)))),
		Steps:                  wire.Steps,
		ProfessionalHelpNeeded: *wire.ProfessionalHelpNeeded,
	}
	return nil
}

// Validate enforces the output contract: known severity, non-empty list of non-blank steps.
func (g GuideResponse) Validate() error {
	if !g.Severity.Valid() {
		return fmt.Errorf("severity %q is not one of critical|urgent|minor", g.Severity)
	}
	if len(g.Steps) == 0 {
		return errors.New("steps must not be empty")
	}
	for i, s := range g.Steps {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("steps[%d] is blank", i)
		}
	}
	return nil
}
