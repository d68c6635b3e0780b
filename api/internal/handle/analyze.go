package handle

import (
	"net/http"

	"aidvision/api/internal/guide/prompt"
	"aidvision/api/internal/guide/types"
)

type analyzeReq struct {
	LLMName string `json:"llm_name"`
	types.AnalyzeRequest
}

// Analyze - разбор по фото (+ необязательное описание)
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeReq
	if !h.decode(w, r, &req) {
		return
	}
	if err := types.ValidatePhoto("image", req.Image, h.maxImageBytes); err != nil {
		h.reply(w, prompt.FlowAnalyze, types.GuideResponse{}, err)
		return
	}
	out, err := h.svc.Analyze(r.Context(), req.LLMName, req.AnalyzeRequest)
	h.reply(w, prompt.FlowAnalyze, out, err)
}
