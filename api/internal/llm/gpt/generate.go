package gpt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"aidvision/api/internal/llm"
	"aidvision/api/internal/util"
)

// GenerateJSON calls the Responses API with a strict json_schema text format.
func (e *Engine) GenerateJSON(ctx context.Context, call llm.Call) (string, error) {
	if e.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY is empty")
	}
	body, err := e.buildBody(call)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai %s %d: %s", call.Name, resp.StatusCode, util.TruncateBytes(bytes.TrimSpace(raw), 1024))
	}

	out, err := util.ExtractResponsesText(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("openai %s: bad envelope: %w", call.Name, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("openai %s: %w; body=%s", call.Name, llm.ErrEmptyResponse, util.TruncateBytes(raw, 512))
	}
	return out, nil
}

func (e *Engine) buildBody(call llm.Call) (map[string]any, error) {
	user := []any{
		map[string]any{"type": "input_text", "text": call.User},
	}
	for _, md := range call.Media {
		if !isOpenAIImageMIME(md.MIMEType) {
			return nil, fmt.Errorf("openai %s: unsupported image type %q", call.Name, md.MIMEType)
		}
		user = append(user, map[string]any{
			"type":      "input_image",
			"image_url": util.MakeDataURL(md.MIMEType, base64.StdEncoding.EncodeToString(md.Data)),
		})
	}

	input := make([]any, 0, 2)
	if call.System != "" {
		input = append(input, map[string]any{
			"role": "system",
			"content": []any{
				map[string]any{"type": "input_text", "text": call.System},
			},
		})
	}
	input = append(input, map[string]any{"role": "user", "content": user})

	body := map[string]any{
		"model":       e.Model,
		"input":       input,
		"temperature": 0.2,
	}
	if call.Schema != nil {
		schema := call.Schema.JSONSchema()
		util.FixJSONSchemaStrict(schema)
		body["text"] = map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   schemaName(call.Name),
				"strict": true,
				"schema": schema,
			},
		}
	}
	return body, nil
}

// OpenAI schema names allow only [a-zA-Z0-9_-].
func schemaName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "output"
	}
	return b.String()
}
