package handle

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/llm"
	"aidvision/api/internal/logger/loggertest"
)

type fakeGuides struct {
	llmName  string
	guides   []types.GuideRequest
	analyses []types.AnalyzeRequest
	out      types.GuideResponse
	err      error
}

func (f *fakeGuides) Generate(_ context.Context, llmName string, req types.GuideRequest) (types.GuideResponse, error) {
	f.llmName = llmName
	f.guides = append(f.guides, req)
	if f.err != nil {
		return types.GuideResponse{}, f.err
	}
	if err := req.Validate(); err != nil {
		return types.GuideResponse{}, err
	}
	return f.out, nil
}

func (f *fakeGuides) Analyze(_ context.Context, llmName string, req types.AnalyzeRequest) (types.GuideResponse, error) {
	f.llmName = llmName
	f.analyses = append(f.analyses, req)
	if f.err != nil {
		return types.GuideResponse{}, f.err
	}
	return f.out, nil
}

var urgent = types.GuideResponse{
	Severity:               types.SeverityUrgent,
	Steps:                  []string{"Apply pressure", "Elevate the wound"},
	ProfessionalHelpNeeded: true,
}

func serve(t *testing.T, h *Handle, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.Register(mux)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestGuideReturnsResponse(t *testing.T) {
	svc := &fakeGuides{out: urgent}
	rec := serve(t, New(svc, nil, 1<<20), http.MethodPost, "/v1/guide",
		`{"llm_name":"gpt","description":"Deep cut on finger, bleeding moderately"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "gpt", svc.llmName)
	require.Len(t, svc.guides, 1)
	assert.Equal(t, types.GuideRequest{Description: "Deep cut on finger, bleeding moderately"}, svc.guides[0])

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "urgent", out["severity"])
	assert.Equal(t, []any{"Apply pressure", "Elevate the wound"}, out["steps"])
	assert.Equal(t, true, out["professional_help_needed"])
}

func TestGuideValidationIsBadRequest(t *testing.T) {
	svc := &fakeGuides{out: urgent}
	rec := serve(t, New(svc, nil, 1<<20), http.MethodPost, "/v1/guide", `{"description":"cut"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "description", body.Field)
	assert.Contains(t, body.Error, "at least 10 characters")
}

func TestGuideRejectsBadPhotoBeforeService(t *testing.T) {
	svc := &fakeGuides{out: urgent}
	rec := serve(t, New(svc, nil, 1<<20), http.MethodPost, "/v1/guide",
		`{"description":"Deep cut on finger, bleeding moderately","photo_data_uri":"data:text/plain;base64,aGk="}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.guides)
	assert.Contains(t, rec.Body.String(), `"field":"photo_data_uri"`)
}

func TestGuideProviderErrorIsOpaque(t *testing.T) {
	log, logs := loggertest.New()
	svc := &fakeGuides{err: &llm.ProviderError{Flow: "generate-first-aid-guide", Engine: "gemini", Err: errors.New("quota exceeded")}}
	rec := serve(t, New(svc, log, 1<<20), http.MethodPost, "/v1/guide",
		`{"description":"Deep cut on finger, bleeding moderately"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "quota")

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.SubmissionID)

	entries := logs.FilterMessage("AI error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, body.SubmissionID, entries[0].ContextMap()["submission_id"])
}

func TestAnalyzePassesImage(t *testing.T) {
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	svc := &fakeGuides{out: urgent}
	rec := serve(t, New(svc, nil, 1<<20), http.MethodPost, "/v1/analyze",
		`{"symptom_description":"Red swollen rash on forearm","image":"`+uri+`"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.analyses, 1)
	assert.Equal(t, uri, svc.analyses[0].Image)
	assert.Equal(t, "", svc.llmName)
}

func TestMethodAndJSONErrors(t *testing.T) {
	h := New(&fakeGuides{}, nil, 1<<20)

	rec := serve(t, h, http.MethodGet, "/v1/guide", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))

	rec = serve(t, h, http.MethodPost, "/v1/analyze", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
