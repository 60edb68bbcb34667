package prompt

import (
	"strings"
	"testing"
)

func TestTemplateRender(t *testing.T) {
	tmpl, err := NewTemplate("greeting", "Hola {{.Name}}, bienvenido a {{.Course}}")
	if err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}

	out, err := tmpl.Render(map[string]any{"Name": "Ana", "Course": "SQL"})
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	if out != "Hola Ana, bienvenido a SQL" {
		t.Errorf("Unexpected render output: %s", out)
	}
}

func TestTemplateParseError(t *testing.T) {
	if _, err := NewTemplate("bad", "{{.Unclosed"); err == nil {
		t.Error("Expected parse error")
	}
}

func TestManagerRegisterAndRender(t *testing.T) {
	m := NewManager()

	if err := m.RegisterString("test", "valor: {{.V}}"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	out, err := m.Render("test", map[string]any{"V": 42})
	if err != nil {
		t.Fatalf("Failed to render: %v", err)
	}
	if out != "valor: 42" {
		t.Errorf("Unexpected output: %s", out)
	}
}

func TestManagerRegisterOverrides(t *testing.T) {
	m := NewManager()

	if err := m.RegisterString("t", "first"); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if err := m.RegisterString("t", "second"); err != nil {
		t.Fatalf("Failed to re-register: %v", err)
	}

	out, _ := m.Render("t", nil)
	if out != "second" {
		t.Errorf("Expected override to win, got '%s'", out)
	}
}

func TestManagerGetNotFound(t *testing.T) {
	m := NewManager()

	if _, err := m.Get("missing"); err == nil {
		t.Error("Expected error for missing template")
	}
}

func TestManagerEmptyName(t *testing.T) {
	m := NewManager()

	if err := m.Register(&Template{Name: ""}); err == nil {
		t.Error("Expected error for empty template name")
	}
}

func TestManagerList(t *testing.T) {
	m := NewManager()
	m.RegisterString("a", "x")
	m.RegisterString("b", "y")

	names := m.List()
	if len(names) != 2 {
		t.Errorf("Expected 2 templates, got %d", len(names))
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "a") || !strings.Contains(joined, "b") {
		t.Errorf("Expected both names listed, got %v", names)
	}
}
