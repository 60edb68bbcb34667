// Package middleware provides an interception chain around turn processing.
// Middlewares observe or modify the turn before and after the agents run.
package middleware

import (
	"context"
	"log/slog"

	"github.com/sweetpotato0/edubot/pkg/logging"
	"github.com/sweetpotato0/edubot/router"
)

// Context carries one turn through the chain.
type Context struct {
	// SessionID identifies the conversation.
	SessionID string

	// Input is the raw user message.
	Input string

	// Category is the routing decision, set by the final handler.
	Category router.Category

	// Response is the assistant's reply text.
	Response string

	// Err holds the processing error, if any.
	Err error

	// Metadata passes data between middlewares.
	Metadata map[string]any

	context context.Context
}

// NewContext creates a middleware context for one turn.
func NewContext(ctx context.Context, sessionID, input string) *Context {
	return &Context{
		SessionID: sessionID,
		Input:     input,
		Metadata:  make(map[string]any),
		context:   ctx,
	}
}

// Context returns the underlying context.Context.
func (c *Context) Context() context.Context {
	return c.context
}

// Middleware intercepts a turn. Returning an error stops the chain.
type Middleware interface {
	Name() string
	Execute(ctx *Context, next Handler) error
}

// Handler passes control to the next middleware or the final handler.
type Handler func(*Context) error

// Chain is an ordered sequence of middlewares.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates a chain from the given middlewares.
func NewChain(middlewares ...Middleware) *Chain {
	return &Chain{middlewares: middlewares}
}

// Add appends a middleware to the chain.
func (c *Chain) Add(m Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Execute runs the chain and then the final handler.
func (c *Chain) Execute(ctx *Context, finalHandler Handler) error {
	return c.execute(ctx, 0, finalHandler)
}

func (c *Chain) execute(ctx *Context, index int, finalHandler Handler) error {
	if index >= len(c.middlewares) {
		return finalHandler(ctx)
	}
	next := func(ctx *Context) error {
		return c.execute(ctx, index+1, finalHandler)
	}
	return c.middlewares[index].Execute(ctx, next)
}

// RequestLogger logs each incoming turn.
type RequestLogger struct {
	logger *slog.Logger
}

// NewRequestLogger creates a request logging middleware.
func NewRequestLogger() *RequestLogger {
	return &RequestLogger{logger: logging.WithComponent("middleware.request")}
}

// Name returns the middleware name.
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request before handing off.
func (m *RequestLogger) Execute(ctx *Context, next Handler) error {
	m.logger.Info("turn received", "session_id", ctx.SessionID, "input_len", len(ctx.Input))
	return next(ctx)
}

// ResponseLogger logs each outgoing reply with its routing decision.
type ResponseLogger struct {
	logger *slog.Logger
}

// NewResponseLogger creates a response logging middleware.
func NewResponseLogger() *ResponseLogger {
	return &ResponseLogger{logger: logging.WithComponent("middleware.response")}
}

// Name returns the middleware name.
func (m *ResponseLogger) Name() string {
	return "ResponseLogger"
}

// Execute logs the reply after the rest of the chain ran.
func (m *ResponseLogger) Execute(ctx *Context, next Handler) error {
	err := next(ctx)
	if ctx.Err != nil {
		m.logger.Error("turn failed", "session_id", ctx.SessionID, "category", ctx.Category, "error", ctx.Err)
	} else {
		m.logger.Info("turn completed", "session_id", ctx.SessionID, "category", ctx.Category, "response_len", len(ctx.Response))
	}
	return err
}
