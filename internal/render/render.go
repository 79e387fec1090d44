// Package render owns the presenter templates that turn a profile record
// into conversational text. Built-in templates cover every pipeline path;
// custom templates can be loaded from interpreted Go definition files.
package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/davern/profilerelay/internal/profile"
)

// Well-known template names used by the present stage.
const (
	TemplateSummary = "summary"
	TemplateUnknown = "unknown"
	TemplateHolding = "holding"
)

// Data is the payload handed to presenter templates.
type Data struct {
	Profile  profile.Profile
	FollowUp bool
}

var builtins = map[string]string{
	TemplateSummary: `{{if .FollowUp}}Of course - here's {{.Profile.Name}}'s profile again:{{else}}Here's what I found about {{.Profile.Name}}:{{end}}

**Profile Information:**
- Name: {{.Profile.Name}}
- Role: {{.Profile.Role}}
- Department: {{.Profile.Department}}
- Email: {{.Profile.Email}}

**Skills:**
{{- if .Profile.Skills}}
{{- range .Profile.Skills}}
- {{.}}
{{- end}}
{{- else}}
- none
{{- end}}

**Current Projects:**
{{- if .Profile.Projects}}
{{- range .Profile.Projects}}
- {{.}}
{{- end}}
{{- else}}
- none
{{- end}}

**Account Details:**
- Status: {{.Profile.Status}}
- Joined: {{.Profile.JoinedDate}}
- Last Login: {{.Profile.LastLogin}}

Is there anything else you'd like to know about this person?`,

	TemplateUnknown: `I couldn't find that person in the directory, so the profile came back as {{.Profile.UserID}}. Could you double-check the user id or name and try again?`,

	TemplateHolding: `I don't have that profile yet - the data is still being fetched. Please give me a moment and ask again.`,
}

// Registry holds parsed presenter templates by name.
type Registry struct {
	templates map[string]*template.Template
}

// NewRegistry returns a registry seeded with the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: map[string]*template.Template{}}
	for name, text := range builtins {
		r.templates[name] = template.Must(template.New(name).Parse(text))
	}
	return r
}

// Register parses and stores a template, replacing any existing one with the
// same name.
func (r *Registry) Register(name, text string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("render: template name is required")
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return fmt.Errorf("render: parse template %s: %w", name, err)
	}
	r.templates[name] = tmpl
	return nil
}

// Names returns the registered template names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute renders the named template over data.
func (r *Registry) Execute(name string, data Data) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("render: unknown template %s", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render: execute template %s: %w", name, err)
	}
	return sb.String(), nil
}
