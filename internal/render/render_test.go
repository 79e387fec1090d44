package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davern/profilerelay/internal/profile"
)

func sampleProfile() profile.Profile {
	return profile.Profile{
		UserID:     "U003",
		Name:       "Carol Martinez",
		Email:      "carol.martinez@techcorp.com",
		Role:       "DevOps Engineer",
		Department: "Engineering",
		Skills:     []string{"Kubernetes", "Docker", "CI/CD", "AWS", "Terraform"},
		Projects:   []string{"Infrastructure Automation", "Cloud Migration"},
		Status:     "active",
		JoinedDate: "2023-01-10",
		LastLogin:  "2025-10-02T08:30:00Z",
	}
}

func TestSummaryTemplateCoversEveryField(t *testing.T) {
	r := NewRegistry()
	out, err := r.Execute(TemplateSummary, Data{Profile: sampleProfile()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	p := sampleProfile()
	want := append([]string{p.Name, p.Role, p.Department, p.Email, p.Status, p.JoinedDate, p.LastLogin}, p.Skills...)
	want = append(want, p.Projects...)
	for _, fragment := range want {
		if !strings.Contains(out, fragment) {
			t.Fatalf("summary missing %q:\n%s", fragment, out)
		}
	}
	if !strings.Contains(out, "anything else") {
		t.Fatalf("summary missing follow-up offer:\n%s", out)
	}
}

func TestSummaryTemplateFollowUpGreeting(t *testing.T) {
	r := NewRegistry()
	fresh, err := r.Execute(TemplateSummary, Data{Profile: sampleProfile()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	again, err := r.Execute(TemplateSummary, Data{Profile: sampleProfile(), FollowUp: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fresh == again {
		t.Fatal("follow-up rendering should differ from fresh rendering")
	}
	if !strings.Contains(again, "again") {
		t.Fatalf("follow-up greeting missing:\n%s", again)
	}
}

func TestSummaryTemplateEmptyListsRenderNone(t *testing.T) {
	r := NewRegistry()
	p := sampleProfile()
	p.Skills = nil
	p.Projects = []string{}
	out, err := r.Execute(TemplateSummary, Data{Profile: p})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Count(out, "- none") != 2 {
		t.Fatalf("empty lists not rendered as none:\n%s", out)
	}
}

func TestUnknownTemplateNamesSentinel(t *testing.T) {
	r := NewRegistry()
	out, err := r.Execute(TemplateUnknown, Data{Profile: profile.Unknown()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, profile.UnknownID) {
		t.Fatalf("unknown response does not surface the sentinel:\n%s", out)
	}
}

func TestExecuteUnknownTemplateName(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Execute("no-such-template", Data{}); err == nil {
		t.Fatal("expected error for unregistered template")
	}
}

func TestRegisterRejectsBadTemplate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("broken", "{{.Missing"); err == nil {
		t.Fatal("expected parse error")
	}
	if err := r.Register("  ", "ok"); err == nil {
		t.Fatal("expected name error")
	}
}

func TestLoadPluginDirRegistersTemplates(t *testing.T) {
	dir := t.TempDir()
	pluginSrc := `package main

func Templates() map[string]string {
	return map[string]string{
		"terse": "{{.Profile.Name}} / {{.Profile.Role}}",
	}
}
`
	if err := os.WriteFile(filepath.Join(dir, "terse.go"), []byte(pluginSrc), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	if err := r.LoadPluginDir(dir); err != nil {
		t.Fatalf("LoadPluginDir: %v", err)
	}
	out, err := r.Execute("terse", Data{Profile: sampleProfile()})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "Carol Martinez / DevOps Engineer" {
		t.Fatalf("unexpected plugin rendering: %q", out)
	}
}

func TestLoadPluginDirMissingDirIsNoOp(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadPluginDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("LoadPluginDir: %v", err)
	}
}

func TestLoadPluginDirRejectsFileWithoutTemplatesFunc(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.go"), []byte("package main\n\nvar X = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	if err := r.LoadPluginDir(dir); err == nil {
		t.Fatal("expected error for plugin without Templates()")
	}
}
