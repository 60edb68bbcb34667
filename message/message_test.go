package message

import (
	"testing"
)

func TestNew(t *testing.T) {
	msg := New(RoleUser, "hola")

	if msg.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, msg.Role)
	}

	if msg.Content != "hola" {
		t.Errorf("Expected content 'hola', got '%s'", msg.Content)
	}

	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}

	if msg.CreatedAt.IsZero() {
		t.Error("Expected non-zero created time")
	}
}

func TestNewAgent(t *testing.T) {
	msg := NewAgent("respuesta", "ventas")

	if msg.Role != RoleAssistant {
		t.Errorf("Expected role %s, got %s", RoleAssistant, msg.Role)
	}

	if msg.Agent != "ventas" {
		t.Errorf("Expected agent 'ventas', got '%s'", msg.Agent)
	}
}

func TestClone(t *testing.T) {
	msg := New(RoleUser, "hola")
	msg.Metadata = map[string]any{"k": "v"}

	cloned := Clone(msg)
	cloned.Metadata["k"] = "changed"

	if msg.Metadata["k"] != "v" {
		t.Error("Clone should not share metadata with the original")
	}

	if cloned.Content != msg.Content {
		t.Errorf("Expected cloned content '%s', got '%s'", msg.Content, cloned.Content)
	}
}

func TestCloneMessages(t *testing.T) {
	msgs := []*Message{New(RoleUser, "a"), New(RoleAssistant, "b")}

	clones := CloneMessages(msgs)
	if len(clones) != 2 {
		t.Errorf("Expected 2 cloned messages, got %d", len(clones))
	}

	clones[0].Content = "changed"
	if msgs[0].Content != "a" {
		t.Error("Cloned messages should not share storage with originals")
	}
}
