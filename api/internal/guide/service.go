package guide

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aidvision/api/internal/guide/prompt"
	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/llm"
	"aidvision/api/internal/logger"
)

// Service runs the two first-aid flows against the configured providers.
// It keeps no state between calls.
type Service struct {
	engines *llm.Engines
	guide   *llm.Flow[types.GuideRequest, types.GuideResponse]
	analyze *llm.Flow[types.AnalyzeRequest, types.GuideResponse]
	log     *logger.Logger
}

func NewService(engines *llm.Engines, templates map[string]prompt.Template, log *logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Nop()
	}
	guide, err := newFlow[types.GuideRequest](prompt.FlowGuide, "photo_data_uri", templates)
	if err != nil {
		return nil, err
	}
	analyze, err := newFlow[types.AnalyzeRequest](prompt.FlowAnalyze, "image", templates)
	if err != nil {
		return nil, err
	}
	return &Service{engines: engines, guide: guide, analyze: analyze, log: log}, nil
}

func newFlow[In llm.Input](name, mediaField string, templates map[string]prompt.Template) (*llm.Flow[In, types.GuideResponse], error) {
	tpl, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("no prompt for flow %s", name)
	}
	parsed, err := tpl.Parse(name)
	if err != nil {
		return nil, err
	}
	return &llm.Flow[In, types.GuideResponse]{
		Name:       name,
		System:     tpl.System,
		Prompt:     parsed,
		Schema:     prompt.GuideSchema(),
		MediaField: mediaField,
	}, nil
}

// GenerateGuide runs generate-first-aid-guide on the default provider.
func (s *Service) GenerateGuide(ctx context.Context, req types.GuideRequest) (types.GuideResponse, error) {
	return s.Generate(ctx, "", req)
}

// Generate runs generate-first-aid-guide on the named provider ("" = default).
func (s *Service) Generate(ctx context.Context, llmName string, req types.GuideRequest) (types.GuideResponse, error) {
	eng, err := s.engine(llmName)
	if err != nil {
		return types.GuideResponse{}, err
	}
	return run(ctx, s.log, s.guide, eng, req)
}

// Analyze runs analyze-image-for-symptoms on the named provider ("" = default).
func (s *Service) Analyze(ctx context.Context, llmName string, req types.AnalyzeRequest) (types.GuideResponse, error) {
	eng, err := s.engine(llmName)
	if err != nil {
		return types.GuideResponse{}, err
	}
	return run(ctx, s.log, s.analyze, eng, req)
}

func (s *Service) engine(llmName string) (llm.Engine, error) {
	eng, err := s.engines.GetEngine(llmName)
	if errors.Is(err, llm.ErrUnknownEngine) {
		return nil, &types.ValidationError{Field: "llm_name", Message: err.Error()}
	}
	return eng, err
}

func run[In llm.Input](ctx context.Context, log *logger.Logger, f *llm.Flow[In, types.GuideResponse], eng llm.Engine, in In) (types.GuideResponse, error) {
	started := time.Now()
	out, err := f.Run(ctx, eng, in)
	if err != nil {
		return out, err
	}
	log.Debug("guide generated",
		"flow", f.Name,
		"engine", eng.Name(),
		"model", eng.GetModel(),
		"severity", out.Severity,
		"steps", len(out.Steps),
		"elapsed", time.Since(started),
	)
	return out, nil
}
