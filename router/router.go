// Package router scores incoming messages against weighted keyword tables
// and selects the agent category that should handle the turn. Matching is
// case-insensitive substring containment, without tokenization: a keyword
// that is itself a substring of another matched keyword counts twice. That
// behavior is load-bearing for the routing weights and must not be replaced
// with word-boundary matching.
package router

import (
	"log/slog"
	"strings"

	"github.com/sweetpotato0/edubot/pkg/logging"
)

// Category identifies one of the specialized agents.
type Category string

const (
	CategoryNone    Category = ""
	CategoryCourses Category = "cursos"
	CategoryCareers Category = "carreras"
	CategorySales   Category = "ventas"
)

// DefaultCategory handles messages that match nothing.
const DefaultCategory = CategoryCourses

// selectionOrder breaks score ties; earlier entries win.
var selectionOrder = []Category{CategoryCourses, CategoryCareers, CategorySales}

// Categories returns all routable categories in priority order.
func Categories() []Category {
	return append([]Category(nil), selectionOrder...)
}

// Weights maps each category to its keyword weight table.
type Weights map[Category]map[string]int

// ScoreVector holds the per-category affinity computed for one message.
type ScoreVector map[Category]int

// Max returns the highest score in the vector.
func (s ScoreVector) Max() int {
	max := 0
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}

// DefaultWeights returns the keyword weight tables for the three agents.
func DefaultWeights() Weights {
	return Weights{
		CategorySales: {
			"comprar":     15,
			"pagar":       15,
			"costo":       15,
			"precio":      15,
			"inscribir":   15,
			"inscripción": 15,
			"matricular":  15,
			"matrícula":   15,
			"adquirir":    15,
			"invertir":    15,
			"oferta":      10,
			"descuento":   10,
			"promoción":   10,
		},
		CategoryCourses: {
			"curso":     5,
			"cursos":    5,
			"contenido": 5,
			"tema":      5,
			"material":  5,
			"clase":     5,
			"profesor":  5,
			"enseñar":   5,
			"aprender":  5,
			"formación": 5,
		},
		CategoryCareers: {
			"carrera":     10,
			"profesión":   10,
			"profesional": 10,
			"camino":      10,
			"ruta":        10,
			"convertir":   10,
			"convertirme": 10,
			"ser":         8,
			"trabajo":     8,
			"laboral":     8,
			"empleo":      8,
			"futuro":      8,
			"mercado":     8,
			"perfil":      8,
			"engineer":    10,
			"developer":   10,
			"scientist":   10,
			"analyst":     10,
		},
	}
}

// Bonus points layered on top of raw keyword scores.
const (
	purchaseIntentBonus   = 10 // sales matched anything at all
	shortReplyBonus       = 15 // two tokens or fewer, previous agent known
	affirmativeSalesBonus = 25 // "sí" while sales was the last agent
	affirmativeBonus      = 15 // "sí" while any other agent was last
	courseInPurchaseBonus = 15 // "curso" mentioned with purchase intent

	shortReplyMaxTokens = 2
)

// affirmations are matched as substrings, same as keywords.
var affirmations = []string{"si", "sí", "yes"}

// Router selects a category for each incoming message. It holds no
// per-conversation state; the caller owns the last selected category and
// passes it in, keyed by session.
type Router struct {
	weights Weights
	logger  *slog.Logger
}

// Option is a function that configures a Router.
type Option func(*Router)

// WithWeights overrides the keyword weight tables.
func WithWeights(w Weights) Option {
	return func(r *Router) {
		if w != nil {
			r.weights = w
		}
	}
}

// WithLogger overrides the logger used by the router.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a router with the given options.
func New(opts ...Option) *Router {
	r := &Router{
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.WithComponent("router")
	}
	return r
}

// Score computes the affinity of every category for the message. The result
// is a pure function of (message, last, weights); calling it twice with the
// same input yields the same vector.
func (r *Router) Score(input string, last Category) ScoreVector {
	msg := strings.ToLower(input)

	scores := make(ScoreVector, len(selectionOrder))
	for _, cat := range selectionOrder {
		scores[cat] = 0
	}

	for cat, table := range r.weights {
		for keyword, weight := range table {
			if strings.Contains(msg, keyword) {
				scores[cat] += weight
				r.logger.Debug("keyword matched", "category", cat, "keyword", keyword, "weight", weight)
			}
		}
	}

	// Purchase intent escalation.
	if scores[CategorySales] > 0 {
		scores[CategorySales] += purchaseIntentBonus
		r.logger.Debug("purchase intent bonus", "category", CategorySales, "bonus", purchaseIntentBonus)
	}

	// Short replies lean towards whoever spoke last.
	if len(strings.Fields(msg)) <= shortReplyMaxTokens && last != CategoryNone {
		scores[last] += shortReplyBonus
		r.logger.Debug("short reply bonus", "category", last, "bonus", shortReplyBonus)
	}

	// Affirmative replies compound with the short-reply bonus above; the
	// source system double-books both for a bare "sí" and that behavior is
	// kept until product decides otherwise.
	if containsAny(msg, affirmations) {
		switch {
		case last == CategorySales:
			scores[CategorySales] += affirmativeSalesBonus
			r.logger.Debug("affirmative in sales context", "bonus", affirmativeSalesBonus)
		case last != CategoryNone:
			scores[last] += affirmativeBonus
			r.logger.Debug("affirmative bonus", "category", last, "bonus", affirmativeBonus)
		}
	}

	// A course mention alongside purchase intent stays with sales.
	if strings.Contains(msg, "curso") && scores[CategorySales] > 0 {
		scores[CategorySales] += courseInPurchaseBonus
		r.logger.Debug("course mention in purchase context", "bonus", courseInPurchaseBonus)
	}

	return scores
}

// Select scores the message and picks the winning category. Ties resolve by
// the fixed priority order with courses first. When every score is zero the
// default category handles the turn and the returned last category is the
// one passed in, unchanged.
func (r *Router) Select(input string, last Category) (Category, ScoreVector, Category) {
	scores := r.Score(input, last)

	selected := DefaultCategory
	best := 0
	for _, cat := range selectionOrder {
		if scores[cat] > best {
			selected = cat
			best = scores[cat]
		}
	}

	newLast := last
	if best > 0 {
		newLast = selected
	}

	r.logger.Info("category selected", "category", selected, "score", best, "last", newLast)
	return selected, scores, newLast
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
