package handle

import (
	"net/http"

	"aidvision/api/internal/guide/prompt"
	"aidvision/api/internal/guide/types"
)

// guideReq - контракт /v1/guide; llm_name пустой означает провайдера по умолчанию
type guideReq struct {
	LLMName string `json:"llm_name"`
	types.GuideRequest
}

func (h *Handle) Guide(w http.ResponseWriter, r *http.Request) {
	var req guideReq
	if !h.decode(w, r, &req) {
		return
	}
	if err := types.ValidatePhoto("photo_data_uri", req.PhotoDataURI, h.maxImageBytes); err != nil {
		h.reply(w, prompt.FlowGuide, types.GuideResponse{}, err)
		return
	}
	out, err := h.svc.Generate(r.Context(), req.LLMName, req.GuideRequest)
	h.reply(w, prompt.FlowGuide, out, err)
}
