// Package agent implements the specialized assistants. Each agent owns a
// prompt template and delegates text generation to an injected LLM client.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/edubot/errors"
	"github.com/sweetpotato0/edubot/message"
	"github.com/sweetpotato0/edubot/pkg/logging"
	"github.com/sweetpotato0/edubot/prompt"
	"github.com/sweetpotato0/edubot/router"
)

// LLMClient generates a completion for a message sequence. Provider
// implementations live under provider/.
type LLMClient interface {
	Generate(ctx context.Context, messages []*message.Message) (*message.Message, error)
	SetModel(model string)
	SetTemperature(temperature float64)
	SetMaxTokens(maxTokens int)
}

// GenerateRequest carries everything an agent needs to answer one turn.
type GenerateRequest struct {
	Query     string
	Knowledge string
	Context   string
	History   string
}

// Agent answers queries for one routing category.
type Agent struct {
	category router.Category
	client   LLMClient
	prompts  *prompt.Manager
	template string
	logger   *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent)

// WithCategory sets the routing category the agent serves.
func WithCategory(cat router.Category) Option {
	return func(a *Agent) {
		a.category = cat
	}
}

// WithClient sets the LLM client used for generation.
func WithClient(client LLMClient) Option {
	return func(a *Agent) {
		a.client = client
	}
}

// WithPrompts sets the prompt manager holding the agent templates.
func WithPrompts(prompts *prompt.Manager) Option {
	return func(a *Agent) {
		a.prompts = prompts
	}
}

// WithTemplate overrides the template name the agent renders. Defaults to
// the template registered under the category name.
func WithTemplate(name string) Option {
	return func(a *Agent) {
		a.template = name
	}
}

// WithTemperature adjusts the client's sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(a *Agent) {
		if a.client != nil {
			a.client.SetTemperature(temperature)
		}
	}
}

// New creates an agent. A client is required; a prompt manager defaults to
// one preloaded with the built-in templates.
func New(opts ...Option) (*Agent, error) {
	a := &Agent{
		category: router.DefaultCategory,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		return nil, fmt.Errorf("agent requires an LLM client: %w", errors.ErrInvalidInput)
	}
	if a.prompts == nil {
		mgr, err := DefaultPrompts()
		if err != nil {
			return nil, err
		}
		a.prompts = mgr
	}
	if a.template == "" {
		a.template = string(a.category)
	}
	a.logger = logging.WithComponent("agent." + string(a.category))
	return a, nil
}

// Category returns the routing category this agent serves.
func (a *Agent) Category() router.Category {
	return a.category
}

// Respond renders the agent's template with the request and runs a single
// generation. The whole rendered prompt travels as one user message, query
// included.
func (a *Agent) Respond(ctx context.Context, req GenerateRequest) (string, error) {
	rendered, err := a.prompts.Render(a.template, map[string]any{
		"Knowledge": req.Knowledge,
		"Context":   req.Context,
		"History":   req.History,
		"Query":     req.Query,
	})
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", a.category, err)
	}

	a.logger.Debug("generating response", "prompt_len", len(rendered))

	reply, err := a.client.Generate(ctx, []*message.Message{
		message.New(message.RoleUser, rendered),
	})
	if err != nil {
		return "", fmt.Errorf("agent %s generate: %w", a.category, err)
	}

	return strings.TrimSpace(reply.Content), nil
}
