package prompt

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const (
	FlowGuide   = "generate-first-aid-guide"
	FlowAnalyze = "analyze-image-for-symptoms"
)

// Flows lists every flow that has embedded prompts.
var Flows = []string{FlowGuide, FlowAnalyze}

//go:embed templates/*.txt
var embedded embed.FS

// Template is the prompt text of one flow. User is a text/template executed against the flow input.
type Template struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Parse compiles the user template. Unknown fields fail at execution, not silently.
func (t Template) Parse(name string) (*template.Template, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(t.User)
	if err != nil {
		return nil, fmt.Errorf("prompt %s: %w", name, err)
	}
	return tpl, nil
}

// Defaults returns the embedded prompts for every flow.
func Defaults() (map[string]Template, error) {
	out := make(map[string]Template, len(Flows))
	for _, name := range Flows {
		system, err := embedded.ReadFile("templates/" + name + ".system.txt")
		if err != nil {
			return nil, err
		}
		user, err := embedded.ReadFile("templates/" + name + ".user.txt")
		if err != nil {
			return nil, err
		}
		out[name] = Template{System: string(system), User: string(user)}
	}
	return out, nil
}

// Load returns the embedded prompts with overrides from a YAML file applied on top.
// An empty path means no overrides. The file maps flow name to {system, user};
// a field left empty keeps the embedded text.
//
//	generate-first-aid-guide:
//	  system: |
//	    ...
func Load(path string) (map[string]Template, error) {
	out, err := Defaults()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return out, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	var overrides map[string]Template
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return nil, fmt.Errorf("bad prompt file %s: %w", path, err)
	}
	for name, o := range overrides {
		base, ok := out[name]
		if !ok {
			return nil, fmt.Errorf("prompt file %s: unknown flow %q", path, name)
		}
		if strings.TrimSpace(o.System) != "" {
			base.System = o.System
		}
		if strings.TrimSpace(o.User) != "" {
			base.User = o.User
		}
		out[name] = base
	}
	return out, nil
}
