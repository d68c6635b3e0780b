package guide

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidvision/api/internal/guide/prompt"
	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/llm"
)

type stubEngine struct {
	name  string
	calls []llm.Call
	out   string
	err   error
}

func (s *stubEngine) Name() string     { return s.name }
func (s *stubEngine) GetModel() string { return s.name + "-model" }
func (s *stubEngine) GenerateJSON(_ context.Context, call llm.Call) (string, error) {
	s.calls = append(s.calls, call)
	return s.out, s.err
}

const urgentJSON = `{"severity":"urgent","steps":["Apply pressure","Elevate the wound"],"professional_help_needed":true}`

func newTestService(t *testing.T, gemini, openai llm.Engine) *Service {
	t.Helper()
	tpls, err := prompt.Defaults()
	require.NoError(t, err)
	svc, err := NewService(&llm.Engines{Gemini: gemini, OpenAI: openai, Default: "gemini"}, tpls, nil)
	require.NoError(t, err)
	return svc
}

func TestGenerateGuide(t *testing.T) {
	g := &stubEngine{name: "gemini", out: urgentJSON}
	svc := newTestService(t, g, nil)

	out, err := svc.GenerateGuide(context.Background(), types.GuideRequest{Description: "Deep cut on finger, bleeding moderately"})
	require.NoError(t, err)
	assert.Equal(t, types.GuideResponse{
		Severity:               types.SeverityUrgent,
		Steps:                  []string{"Apply pressure", "Elevate the wound"},
		ProfessionalHelpNeeded: true,
	}, out)

	require.Len(t, g.calls, 1)
	call := g.calls[0]
	assert.Equal(t, prompt.FlowGuide, call.Name)
	assert.Contains(t, call.User, "Deep cut on finger, bleeding moderately")
	assert.Empty(t, call.Media)
	require.NotNil(t, call.Schema)
	assert.Equal(t, []string{"critical", "urgent", "minor"}, call.Schema.Properties["severity"].Enum)
}

func TestAnalyzeUsesItsOwnPromptAndNamedEngine(t *testing.T) {
	g := &stubEngine{name: "gemini", out: urgentJSON}
	o := &stubEngine{name: "gpt", out: `{"severity":"minor","steps":["Wash the area"],"professional_help_needed":false}`}
	svc := newTestService(t, g, o)

	out, err := svc.Analyze(context.Background(), "gpt", types.AnalyzeRequest{
		SymptomDescription: "Small scrape on the elbow",
		Image:              "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	assert.Equal(t, types.SeverityMinor, out.Severity)
	assert.Empty(t, g.calls)
	require.Len(t, o.calls, 1)
	assert.Equal(t, prompt.FlowAnalyze, o.calls[0].Name)
	assert.Contains(t, o.calls[0].User, "Symptom Description: Small scrape on the elbow")
	require.Len(t, o.calls[0].Media, 1)
	assert.Equal(t, "image/png", o.calls[0].Media[0].MIMEType)
}

func TestShortDescriptionNeverReachesProvider(t *testing.T) {
	g := &stubEngine{name: "gemini", out: urgentJSON}
	svc := newTestService(t, g, nil)

	for _, d := range []string{"", "cut", "too short"} {
		_, err := svc.GenerateGuide(context.Background(), types.GuideRequest{Description: d})
		var ve *types.ValidationError
		require.ErrorAs(t, err, &ve, d)
	}
	assert.Empty(t, g.calls)
}

func TestProviderFailureIsOpaqueAndSingleShot(t *testing.T) {
	g := &stubEngine{name: "gemini", err: errors.New("503 backend unavailable")}
	svc := newTestService(t, g, nil)

	_, err := svc.GenerateGuide(context.Background(), types.GuideRequest{Description: "Deep cut on finger, bleeding moderately"})
	assert.True(t, llm.IsProviderError(err))
	assert.Len(t, g.calls, 1)
}

func TestUnknownEngineIsValidationError(t *testing.T) {
	svc := newTestService(t, &stubEngine{name: "gemini"}, nil)

	_, err := svc.Generate(context.Background(), "gpt", types.GuideRequest{Description: "Deep cut on finger, bleeding moderately"})
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "llm_name", ve.Field)
}

func TestNewServiceRequiresEveryFlowPrompt(t *testing.T) {
	_, err := NewService(&llm.Engines{}, map[string]prompt.Template{}, nil)
	assert.Error(t, err)
}
