package prompt

import (
	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/llm"
)

// GuideSchema is the single output schema shared by both flows.
func GuideSchema() *llm.Schema {
	enum := make([]string, 0, len(types.Severities))
	for _, s := range types.Severities {
		enum = append(enum, string(s))
	}
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"severity": {
				Type:        llm.TypeString,
				Description: "Assessment of how serious the injury is.",
				Enum:        enum,
			},
			"steps": {
				Type:        llm.TypeArray,
				Description: "Clear first-aid instructions, in order.",
				Items:       &llm.Schema{Type: llm.TypeString},
				MinItems:    1,
			},
			"professional_help_needed": {
				Type:        llm.TypeBoolean,
				Description: "Whether the user should seek professional medical attention.",
			},
		},
		Required: []string{"severity", "steps", "professional_help_needed"},
	}
}
