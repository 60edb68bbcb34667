package history

import (
	"strings"
	"testing"

	"github.com/sweetpotato0/edubot/message"
)

func TestAppendAndLen(t *testing.T) {
	h := New()

	h.Append(message.RoleUser, "hola", "")
	h.Append(message.RoleAssistant, "buenas", "cursos")

	if h.Len() != 2 {
		t.Errorf("Expected 2 messages, got %d", h.Len())
	}
}

func TestAppendAgentLabel(t *testing.T) {
	h := New()

	msg := h.Append(message.RoleAssistant, "respuesta", "ventas")
	if msg.Agent != "ventas" {
		t.Errorf("Expected agent label 'ventas', got '%s'", msg.Agent)
	}
	if msg.Role != message.RoleAssistant {
		t.Errorf("Expected assistant role, got '%s'", msg.Role)
	}
}

func TestLastN(t *testing.T) {
	h := New()
	h.Append(message.RoleUser, "uno", "")
	h.Append(message.RoleUser, "dos", "")
	h.Append(message.RoleUser, "tres", "")

	last := h.LastN(2)
	if len(last) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(last))
	}
	if last[0].Content != "dos" || last[1].Content != "tres" {
		t.Errorf("Expected trailing messages oldest first, got %v", last)
	}
}

func TestLastNMoreThanAvailable(t *testing.T) {
	h := New()
	h.Append(message.RoleUser, "uno", "")

	if got := h.LastN(10); len(got) != 1 {
		t.Errorf("Expected 1 message, got %d", len(got))
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	h := New()
	h.Append(message.RoleUser, "original", "")

	msgs := h.Messages()
	msgs[0].Content = "mutated"

	if h.Messages()[0].Content != "original" {
		t.Error("Messages should return deep copies")
	}
}

func TestClear(t *testing.T) {
	h := New()
	h.Append(message.RoleUser, "hola", "")
	h.Clear()

	if h.Len() != 0 {
		t.Errorf("Expected empty history, got %d messages", h.Len())
	}
}

func TestFormatted(t *testing.T) {
	h := New()
	h.Append(message.RoleUser, "¿qué cursos hay?", "")
	h.Append(message.RoleAssistant, "tenemos varios", "cursos")

	out := h.Formatted(4)
	if !strings.Contains(out, "Usuario: ¿qué cursos hay?") {
		t.Errorf("Missing user line:\n%s", out)
	}
	if !strings.Contains(out, "Asistente (cursos): tenemos varios") {
		t.Errorf("Missing labeled assistant line:\n%s", out)
	}
}

func TestFormattedEmpty(t *testing.T) {
	h := New()

	if out := h.Formatted(4); out != "" {
		t.Errorf("Expected empty transcript, got '%s'", out)
	}
}

func TestFromMessages(t *testing.T) {
	src := []*message.Message{message.New(message.RoleUser, "hola")}
	h := FromMessages(src)

	src[0].Content = "mutated"
	if h.Messages()[0].Content != "hola" {
		t.Error("FromMessages should deep-copy the transcript")
	}
}
