// Package convo tracks which course a conversation is about. The tracker
// scans messages for full course names, catalog aliases, and generic
// follow-up references, maintaining the "current course" and the ordered
// set of courses mentioned so far.
package convo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/edubot/message"
	"github.com/sweetpotato0/edubot/pkg/logging"
)

// Context holds the per-session course memory consumed by prompts.
type Context struct {
	CurrentCourse    string   `json:"current_course,omitempty"`
	MentionedCourses []string `json:"mentioned_courses,omitempty"`
}

// Clone returns a deep copy of the context.
func (c *Context) Clone() *Context {
	if c == nil {
		return &Context{}
	}
	cloned := &Context{CurrentCourse: c.CurrentCourse}
	if len(c.MentionedCourses) > 0 {
		cloned.MentionedCourses = append([]string(nil), c.MentionedCourses...)
	}
	return cloned
}

// Clear resets the context to its initial state.
func (c *Context) Clear() {
	c.CurrentCourse = ""
	c.MentionedCourses = nil
}

// Summary renders the context block injected into agent prompts.
func (c *Context) Summary() string {
	var lines []string
	if c.CurrentCourse != "" {
		lines = append(lines, fmt.Sprintf("Curso actual en discusión: %s", c.CurrentCourse))
	}
	if len(c.MentionedCourses) > 0 {
		lines = append(lines, fmt.Sprintf("Cursos mencionados previamente: %s", strings.Join(c.MentionedCourses, ", ")))
	}
	if len(lines) == 0 {
		return "No hay contexto adicional."
	}
	return strings.Join(lines, "\n")
}

func (c *Context) setCourse(course string) {
	for _, m := range c.MentionedCourses {
		if m == course {
			c.CurrentCourse = course
			return
		}
	}
	c.MentionedCourses = append(c.MentionedCourses, course)
	c.CurrentCourse = course
}

// referenceWords are generic follow-ups that keep the current course alive.
var referenceWords = []string{
	"curso",
	"comprar",
	"pagar",
	"inscribirme",
	"matricularme",
	"ese",
	"este curso",
}

// HistoryWindow is how many trailing history entries the tracker re-scans
// before processing the current message.
const HistoryWindow = 4

// Tracker derives course context from message text. It is stateless; all
// conversation state lives in the Context it updates.
type Tracker struct {
	courses []string
	aliases map[string]string
	logger  *slog.Logger
}

// NewTracker creates a tracker over the known course names and an alias
// table mapping short keywords to canonical course names.
func NewTracker(courses []string, aliases map[string]string) *Tracker {
	return &Tracker{
		courses: append([]string(nil), courses...),
		aliases: aliases,
		logger:  logging.WithComponent("tracker"),
	}
}

// Update applies the context rules to a single message, first match wins:
// full course name containment, then alias containment, then generic
// references that preserve the existing current course. Matching is
// case-insensitive substring containment, same as the router.
func (t *Tracker) Update(ctx *Context, input string) {
	msg := strings.ToLower(input)

	for _, course := range t.courses {
		if strings.Contains(msg, strings.ToLower(course)) {
			ctx.setCourse(course)
			t.logger.Debug("current course set", "course", course)
			return
		}
	}

	for alias, course := range t.aliases {
		if strings.Contains(msg, strings.ToLower(alias)) {
			ctx.setCourse(course)
			t.logger.Debug("current course set by alias", "alias", alias, "course", course)
			return
		}
	}

	if ctx.CurrentCourse != "" {
		for _, ref := range referenceWords {
			if strings.Contains(msg, ref) {
				t.logger.Debug("generic reference keeps course", "course", ctx.CurrentCourse)
				return
			}
		}
	}
}

// ApplyHistory re-applies the update rules over the last HistoryWindow
// history entries, oldest first. Running it before every Update keeps the
// context consistent with the recent transcript even if a turn was handled
// elsewhere; the rules are idempotent, so rescanning already-seen entries
// changes nothing.
func (t *Tracker) ApplyHistory(ctx *Context, history []*message.Message) {
	start := 0
	if len(history) > HistoryWindow {
		start = len(history) - HistoryWindow
	}
	for _, entry := range history[start:] {
		if entry != nil && entry.Content != "" {
			t.Update(ctx, entry.Content)
		}
	}
}
