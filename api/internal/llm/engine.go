package llm

import (
	"context"
	"errors"
	"strings"
)

var ErrUnknownEngine = errors.New("unknown llm_name; use 'gemini' or 'gpt'")

// Media is an inline binary part sent next to the prompt text.
type Media struct {
	MIMEType string
	Data     []byte
}

// Call is one schema-constrained generation request.
type Call struct {
	// Name identifies the flow; providers that need a schema name use it too.
	Name   string
	System string
	User   string
	Media  []Media
	Schema *Schema
}

// Engine performs a single generation call and returns the raw JSON text the model produced.
type Engine interface {
	Name() string
	GetModel() string
	GenerateJSON(ctx context.Context, call Call) (string, error)
}

type Engines struct {
	Gemini Engine
	OpenAI Engine
	// Default is used when the caller does not name a provider.
	Default string
}

func (e *Engines) GetEngine(llmName string) (Engine, error) {
	name := strings.ToLower(strings.TrimSpace(llmName))
	if name == "" {
		name = e.Default
	}
	var eng Engine
	switch name {
	case "gemini":
		eng = e.Gemini
	case "gpt", "openai":
		eng = e.OpenAI
	}
	if eng == nil {
		return nil, ErrUnknownEngine
	}
	return eng, nil
}
