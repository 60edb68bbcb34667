package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sweetpotato0/edubot/message"
	"github.com/sweetpotato0/edubot/router"
)

// mockClient records the last prompt it received and returns a canned reply.
type mockClient struct {
	reply      string
	err        error
	lastPrompt string
}

func (m *mockClient) Generate(_ context.Context, msgs []*message.Message) (*message.Message, error) {
	if len(msgs) > 0 {
		m.lastPrompt = msgs[len(msgs)-1].Content
	}
	if m.err != nil {
		return nil, m.err
	}
	return message.New(message.RoleAssistant, m.reply), nil
}

func (m *mockClient) SetModel(string)        {}
func (m *mockClient) SetTemperature(float64) {}
func (m *mockClient) SetMaxTokens(int)       {}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(WithCategory(router.CategoryCourses)); err == nil {
		t.Error("Expected error without a client")
	}
}

func TestRespondRendersPrompt(t *testing.T) {
	client := &mockClient{reply: "claro, el curso cuesta 420 soles"}
	a, err := New(WithCategory(router.CategorySales), WithClient(client))
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}

	out, err := a.Respond(context.Background(), GenerateRequest{
		Query:     "¿cuánto cuesta?",
		Knowledge: "Curso: SQL\nCosto: 420 soles",
		Context:   "Curso actual en discusión: Gestión de Bases de Datos con SQL",
		History:   "Usuario: me interesa sql",
	})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if out != "claro, el curso cuesta 420 soles" {
		t.Errorf("Unexpected reply: %s", out)
	}

	for _, fragment := range []string{
		"¿cuánto cuesta?",
		"Costo: 420 soles",
		"Curso actual en discusión",
		"Usuario: me interesa sql",
		"ventas y matrículas",
	} {
		if !strings.Contains(client.lastPrompt, fragment) {
			t.Errorf("Prompt missing fragment '%s'", fragment)
		}
	}
}

func TestRespondTrimsReply(t *testing.T) {
	client := &mockClient{reply: "  hola  \n"}
	a, err := New(WithCategory(router.CategoryCourses), WithClient(client))
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}

	out, err := a.Respond(context.Background(), GenerateRequest{Query: "hola"})
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if out != "hola" {
		t.Errorf("Expected trimmed reply, got '%s'", out)
	}
}

func TestRespondGenerateError(t *testing.T) {
	client := &mockClient{err: errors.New("provider down")}
	a, err := New(WithCategory(router.CategoryCareers), WithClient(client))
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}

	if _, err := a.Respond(context.Background(), GenerateRequest{Query: "hola"}); err == nil {
		t.Error("Expected generation error to propagate")
	}
}

func TestDefaultPromptsCoverAllCategories(t *testing.T) {
	mgr, err := DefaultPrompts()
	if err != nil {
		t.Fatalf("Failed to build default prompts: %v", err)
	}

	for _, cat := range router.Categories() {
		if _, err := mgr.Get(string(cat)); err != nil {
			t.Errorf("Missing template for category %s", cat)
		}
	}
}

func TestCategory(t *testing.T) {
	client := &mockClient{}
	a, err := New(WithCategory(router.CategoryCareers), WithClient(client))
	if err != nil {
		t.Fatalf("Failed to create agent: %v", err)
	}
	if a.Category() != router.CategoryCareers {
		t.Errorf("Expected careers category, got %s", a.Category())
	}
}
