package llm

type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
)

// Schema is a provider-neutral description of the JSON the model must return.
// Each engine translates it into its own structured-output format.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	Items       *Schema
	Properties  map[string]*Schema
	// Required keeps declaration order; providers use it for property ordering as well.
	Required []string
	MinItems int
}

// JSONSchema renders the schema as a draft-07 JSON Schema document.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum))
		for _, v := range s.Enum {
			enum = append(enum, v)
		}
		out["enum"] = enum
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if s.MinItems > 0 {
		out["minItems"] = s.MinItems
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = v.JSONSchema()
		}
		out["properties"] = props
		req := make([]any, 0, len(s.Required))
		for _, k := range s.Required {
			req = append(req, k)
		}
		out["required"] = req
		out["additionalProperties"] = false
	}
	return out
}
