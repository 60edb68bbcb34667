// Package assistant wires the router, the context tracker, the session
// manager and the specialized agents into the turn-processing pipeline.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sweetpotato0/edubot/agent"
	"github.com/sweetpotato0/edubot/convo"
	"github.com/sweetpotato0/edubot/errors"
	"github.com/sweetpotato0/edubot/knowledge"
	"github.com/sweetpotato0/edubot/message"
	"github.com/sweetpotato0/edubot/middleware"
	"github.com/sweetpotato0/edubot/pkg/logging"
	"github.com/sweetpotato0/edubot/pkg/telemetry"
	"github.com/sweetpotato0/edubot/pkg/tokenizer"
	"github.com/sweetpotato0/edubot/router"
	"github.com/sweetpotato0/edubot/session"
)

// apologyReply is returned to the user when generation fails. The turn's
// session state survives so the next message continues the conversation.
const apologyReply = "Lo siento, hubo un error al procesar tu mensaje. Por favor, intenta de nuevo."

// historyPromptWindow is how many trailing messages are rendered into the
// prompt's transcript block.
const historyPromptWindow = 10

// Reply is the outcome of one processed turn.
type Reply struct {
	Text         string
	Category     router.Category
	Scores       router.ScoreVector
	Duration     time.Duration
	PromptTokens int
	ErrDetail    string
}

// Dispatcher processes user messages end to end: session lookup, context
// tracking, routing, generation and persistence.
type Dispatcher struct {
	sessions *session.Manager
	router   *router.Router
	tracker  *convo.Tracker
	catalog  *knowledge.Catalog
	agents   map[router.Category]*agent.Agent
	chain    *middleware.Chain
	tokens   *tokenizer.Tokenizer
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSessions sets the session manager.
func WithSessions(sessions *session.Manager) Option {
	return func(d *Dispatcher) {
		d.sessions = sessions
	}
}

// WithRouter sets the category router.
func WithRouter(r *router.Router) Option {
	return func(d *Dispatcher) {
		d.router = r
	}
}

// WithTracker sets the course context tracker. Defaults to one built from
// the catalog.
func WithTracker(tracker *convo.Tracker) Option {
	return func(d *Dispatcher) {
		d.tracker = tracker
	}
}

// WithCatalog sets the course catalog. Required.
func WithCatalog(catalog *knowledge.Catalog) Option {
	return func(d *Dispatcher) {
		d.catalog = catalog
	}
}

// WithAgent registers the agent serving one category.
func WithAgent(a *agent.Agent) Option {
	return func(d *Dispatcher) {
		d.agents[a.Category()] = a
	}
}

// WithMiddleware sets the interception chain run around each turn.
func WithMiddleware(chain *middleware.Chain) Option {
	return func(d *Dispatcher) {
		d.chain = chain
	}
}

// WithTokenizer enables per-turn prompt token counting.
func WithTokenizer(tokens *tokenizer.Tokenizer) Option {
	return func(d *Dispatcher) {
		d.tokens = tokens
	}
}

// New creates a dispatcher. A catalog and one agent per routing category
// are required.
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		agents: make(map[router.Category]*agent.Agent),
		logger: logging.WithComponent("assistant"),
		tracer: otel.Tracer("edubot/assistant"),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.catalog == nil {
		return nil, fmt.Errorf("dispatcher requires a course catalog: %w", errors.ErrInvalidInput)
	}
	for _, cat := range router.Categories() {
		if _, ok := d.agents[cat]; !ok {
			return nil, fmt.Errorf("no agent registered for category %s: %w", cat, errors.ErrInvalidInput)
		}
	}
	if d.sessions == nil {
		d.sessions = session.NewManager()
	}
	if d.router == nil {
		d.router = router.New()
	}
	if d.tracker == nil {
		d.tracker = convo.NewTracker(d.catalog.Names(), d.catalog.Aliases())
	}
	if d.chain == nil {
		d.chain = middleware.NewChain(middleware.NewRequestLogger(), middleware.NewResponseLogger())
	}
	return d, nil
}

// Process handles one user message for the given session. Routing and
// generation failures never escape as errors to the user path: the reply
// carries the apology text and the error detail instead.
func (d *Dispatcher) Process(ctx context.Context, sessionID, input string) (*Reply, error) {
	start := time.Now()

	ctx, span := d.tracer.Start(ctx, "assistant.process",
		trace.WithAttributes(attribute.String("session.id", sessionID)))

	sess, err := d.sessions.GetOrCreate(ctx, sessionID)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	mctx := middleware.NewContext(ctx, sess.ID(), input)
	reply := &Reply{}

	chainErr := d.chain.Execute(mctx, func(mc *middleware.Context) error {
		turnErr := sess.Turn(func(s *session.Session) error {
			d.processTurn(mc.Context(), s, input, reply)
			return nil
		})
		mc.Category = reply.Category
		mc.Response = reply.Text
		if reply.ErrDetail != "" {
			mc.Err = fmt.Errorf("%s", reply.ErrDetail)
		}
		return turnErr
	})
	if chainErr != nil {
		telemetry.End(span, chainErr)
		return nil, chainErr
	}

	if err := d.sessions.Save(ctx, sess); err != nil {
		d.logger.Error("failed to persist session", "session_id", sess.ID(), "error", err)
	}

	reply.Duration = time.Since(start)
	span.SetAttributes(
		attribute.String("routing.category", string(reply.Category)),
		attribute.Int("prompt.tokens", reply.PromptTokens),
	)
	telemetry.End(span, nil)
	return reply, nil
}

// processTurn runs inside the session's critical section.
func (d *Dispatcher) processTurn(ctx context.Context, s *session.Session, input string, reply *Reply) {
	// Rescan the trailing transcript, then fold in the current message.
	d.tracker.ApplyHistory(s.Context, s.History.LastN(convo.HistoryWindow))
	d.tracker.Update(s.Context, input)

	selected, scores, newLast := d.router.Select(input, s.LastCategory)
	s.LastCategory = newLast
	reply.Category = selected
	reply.Scores = scores

	req := agent.GenerateRequest{
		Query:     input,
		Knowledge: d.catalog.Snippet(),
		Context:   s.Context.Summary(),
		History:   s.History.Formatted(historyPromptWindow),
	}
	if d.tokens != nil {
		reply.PromptTokens = d.tokens.CountTokens(req.Knowledge) +
			d.tokens.CountTokens(req.Context) +
			d.tokens.CountTokens(req.History) +
			d.tokens.CountTokens(req.Query)
	}

	text, err := d.agents[selected].Respond(ctx, req)
	if err != nil {
		d.logger.Error("generation failed", "session_id", s.ID(), "category", selected, "error", err)
		reply.Text = apologyReply
		reply.ErrDetail = err.Error()
		return
	}

	s.History.Append(message.RoleUser, input, "")
	s.History.Append(message.RoleAssistant, text, string(selected))
	reply.Text = text
}

// ResetSession clears the session's transcript, context and last category.
func (d *Dispatcher) ResetSession(ctx context.Context, sessionID string) error {
	return d.sessions.Reset(ctx, sessionID)
}

// Sessions exposes the session manager, mainly for the CLI.
func (d *Dispatcher) Sessions() *session.Manager {
	return d.sessions
}
