package types

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuideRequestValidate(t *testing.T) {
	require.NoError(t, GuideRequest{Description: "Deep cut on finger, bleeding moderately"}.Validate())

	for _, d := range []string{"", "cut", "   short   ", "123456789"} {
		err := GuideRequest{Description: d}.Validate()
		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "description %q", d)
		assert.Equal(t, "description", ve.Field)
	}
}

func TestDescriptionLengthCountsRunes(t *testing.T) {
	// 10 Cyrillic letters are 20 bytes but still exactly the minimum.
	assert.NoError(t, GuideRequest{Description: "порезпалец"}.Validate())
	assert.Error(t, GuideRequest{Description: "порезпале"}.Validate())
}

func TestAnalyzeRequestValidateUsesItsOwnField(t *testing.T) {
	err := AnalyzeRequest{SymptomDescription: "rash"}.Validate()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "symptom_description", ve.Field)
}

func TestValidatePhoto(t *testing.T) {
	png := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'})

	assert.NoError(t, ValidatePhoto("photo", "", 0))
	assert.NoError(t, ValidatePhoto("photo", png, 0))
	assert.Error(t, ValidatePhoto("photo", png, 2))
	assert.Error(t, ValidatePhoto("photo", "not-a-uri", 0))
	assert.Error(t, ValidatePhoto("photo", "data:application/pdf;base64,JVBERi0=", 0))
	assert.Error(t, ValidatePhoto("photo", "data:image/png;base64,", 0))
}

func TestGuideResponseDecodeAndValidate(t *testing.T) {
	var g GuideResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"severity": "Urgent",
		"steps": ["Apply pressure", "Elevate the wound"],
		"professional_help_needed": true
	}`), &g))
	require.NoError(t, g.Validate())
	assert.Equal(t, SeverityUrgent, g.Severity)
	assert.Equal(t, []string{"Apply pressure", "Elevate the wound"}, g.Steps)
	assert.True(t, g.ProfessionalHelpNeeded)
}

func TestGuideResponseRequiresHelpFlag(t *testing.T) {
	var g GuideResponse
	err := json.Unmarshal([]byte(`{"severity":"minor","steps":["Rest"]}`), &g)
	assert.ErrorIs(t, err, errHelpFlagMissing)
}

func TestGuideResponseRejectsContractViolations(t *testing.T) {
	cases := map[string]GuideResponse{
		"unknown severity": {Severity: "moderate", Steps: []string{"Rest"}},
		"no steps":         {Severity: SeverityMinor},
		"blank step":       {Severity: SeverityMinor, Steps: []string{"Rest", "  "}},
	}
	for name, g := range cases {
		assert.Error(t, g.Validate(), name)
	}
}

func TestParseSeverity(t *testing.T) {
	for _, s := range Severities {
		got, err := ParseSeverity(strings.ToUpper(string(s)))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSeverity("serious")
	assert.Error(t, err)
}
