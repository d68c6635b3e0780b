package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/logger"
)

// Guides is the part of guide.Service the JSON API needs.
type Guides interface {
	Generate(ctx context.Context, llmName string, req types.GuideRequest) (types.GuideResponse, error)
	Analyze(ctx context.Context, llmName string, req types.AnalyzeRequest) (types.GuideResponse, error)
}

type Handle struct {
	svc           Guides
	log           *logger.Logger
	maxImageBytes int
}

func New(svc Guides, log *logger.Logger, maxImageBytes int) *Handle {
	if log == nil {
		log = logger.Nop()
	}
	return &Handle{
		svc:           svc,
		log:           log.With("component", "api"),
		maxImageBytes: maxImageBytes,
	}
}

// Register mounts the JSON endpoints on mux.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/guide", h.Guide)
	mux.HandleFunc("/v1/analyze", h.Analyze)
}

type errorBody struct {
	Error        string `json:"error"`
	Field        string `json:"field,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a POST body into v; false means a response was already written.
func (h *Handle) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "POST only"})
		return false
	}
	// base64 раздувает картинку на треть
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxImageBytes)*2+1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad json: " + err.Error()})
		return false
	}
	return true
}

// reply maps the flow outcome to a status. Provider failures are logged with a
// submission id and reported generically.
func (h *Handle) reply(w http.ResponseWriter, flow string, out types.GuideResponse, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, out)
		return
	}
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field})
		return
	}
	id := uuid.NewString()
	h.log.Error("AI error", "flow", flow, "submission_id", id, "error", err)
	writeJSON(w, http.StatusBadGateway, errorBody{
		Error:        "Failed to get first-aid guide. Please try again.",
		SubmissionID: id,
	})
}
