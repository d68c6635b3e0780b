package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/util"
)

// Input is what a flow accepts: it validates itself and may carry one inline image.
type Input interface {
	Validate() error
	MediaURI() string
}

// Output is what a flow returns after decoding; Validate enforces the output contract.
type Output interface {
	Validate() error
}

// Flow is a schema-constrained generation call parameterized by a prompt template,
// input validation and output schema.
type Flow[In Input, Out Output] struct {
	Name   string
	System string
	Prompt *template.Template
	Schema *Schema
	// MediaField names the input field reported when the inline image is malformed.
	MediaField string
}

// Run validates the input, renders the prompt, calls the engine once and decodes the result.
// Input problems come back as *types.ValidationError without touching the engine;
// everything after that is a *ProviderError.
func (f *Flow[In, Out]) Run(ctx context.Context, eng Engine, in In) (Out, error) {
	var zero Out
	if err := in.Validate(); err != nil {
		return zero, err
	}

	call, err := f.Build(in)
	if err != nil {
		return zero, err
	}

	fail := func(err error) (Out, error) {
		return zero, &ProviderError{Flow: f.Name, Engine: eng.Name(), Err: err}
	}

	raw, err := eng.GenerateJSON(ctx, call)
	if err != nil {
		return fail(err)
	}
	raw = util.StripCodeFences(raw)
	if raw == "" {
		return fail(ErrEmptyResponse)
	}

	var out Out
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrSchemaViolation, err))
	}
	if err := out.Validate(); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrSchemaViolation, err))
	}
	return out, nil
}

// Build renders the call without sending it.
func (f *Flow[In, Out]) Build(in In) (Call, error) {
	var user bytes.Buffer
	if err := f.Prompt.Execute(&user, in); err != nil {
		return Call{}, fmt.Errorf("%s: render prompt: %w", f.Name, err)
	}

	call := Call{
		Name:   f.Name,
		System: strings.TrimSpace(f.System),
		User:   strings.TrimSpace(user.String()),
		Schema: f.Schema,
	}

	if uri := strings.TrimSpace(in.MediaURI()); uri != "" {
		data, mime, err := util.DecodeDataURL(uri)
		if err != nil || len(data) == 0 {
			field := f.MediaField
			if field == "" {
				field = "image"
			}
			return Call{}, &types.ValidationError{Field: field, Message: "image must be a base64 data URI"}
		}
		call.Media = append(call.Media, Media{MIMEType: util.PickMIME("", mime, data), Data: data})
	}
	return call, nil
}
