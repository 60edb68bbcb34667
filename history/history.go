// Package history keeps the ordered message transcript of a session.
package history

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/edubot/message"
)

// History is an append-only message transcript. It is not safe for
// concurrent use on its own; the owning session serializes access.
type History struct {
	messages []*message.Message
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// FromMessages builds a history from an existing transcript.
func FromMessages(msgs []*message.Message) *History {
	return &History{messages: message.CloneMessages(msgs)}
}

// Append adds a message for the given role. agentLabel records which agent
// produced an assistant message; it is empty for user messages.
func (h *History) Append(role message.Role, content, agentLabel string) *message.Message {
	var msg *message.Message
	if agentLabel != "" {
		msg = message.NewAgent(content, agentLabel)
		msg.Role = role
	} else {
		msg = message.New(role, content)
	}
	h.messages = append(h.messages, msg)
	return msg
}

// AppendMessage adds an already-built message.
func (h *History) AppendMessage(msg *message.Message) {
	if msg != nil {
		h.messages = append(h.messages, msg)
	}
}

// Messages returns a copy of the full transcript in order.
func (h *History) Messages() []*message.Message {
	return message.CloneMessages(h.messages)
}

// LastN returns a copy of the trailing n messages, oldest first.
func (h *History) LastN(n int) []*message.Message {
	if n <= 0 || len(h.messages) == 0 {
		return nil
	}
	start := 0
	if len(h.messages) > n {
		start = len(h.messages) - n
	}
	return message.CloneMessages(h.messages[start:])
}

// Len returns the number of messages in the transcript.
func (h *History) Len() int {
	return len(h.messages)
}

// Clear removes all messages.
func (h *History) Clear() {
	h.messages = nil
}

// Formatted renders the trailing n messages as the labeled transcript block
// injected into prompts.
func (h *History) Formatted(n int) string {
	entries := h.LastN(n)
	if len(entries) == 0 {
		return ""
	}

	lines := make([]string, 0, len(entries))
	for _, msg := range entries {
		switch msg.Role {
		case message.RoleUser:
			lines = append(lines, fmt.Sprintf("Usuario: %s", msg.Content))
		case message.RoleAssistant:
			if msg.Agent != "" {
				lines = append(lines, fmt.Sprintf("Asistente (%s): %s", msg.Agent, msg.Content))
			} else {
				lines = append(lines, fmt.Sprintf("Asistente: %s", msg.Content))
			}
		}
	}
	return strings.Join(lines, "\n")
}
