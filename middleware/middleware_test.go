package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetpotato0/edubot/router"
)

// recorder appends its name to order on the way in and out.
type recorder struct {
	name  string
	order *[]string
	fail  bool
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Execute(ctx *Context, next Handler) error {
	*r.order = append(*r.order, r.name+":in")
	if r.fail {
		return errors.New(r.name + " failed")
	}
	err := next(ctx)
	*r.order = append(*r.order, r.name+":out")
	return err
}

func TestChainOrder(t *testing.T) {
	var order []string
	chain := NewChain(
		&recorder{name: "a", order: &order},
		&recorder{name: "b", order: &order},
	)

	ctx := NewContext(context.Background(), "s1", "hola")
	err := chain.Execute(ctx, func(c *Context) error {
		order = append(order, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := []string{"a:in", "b:in", "handler", "b:out", "a:out"}
	if len(order) != len(want) {
		t.Fatalf("Expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Expected order %v, got %v", want, order)
			break
		}
	}
}

func TestChainStopsOnError(t *testing.T) {
	var order []string
	chain := NewChain(
		&recorder{name: "a", order: &order, fail: true},
		&recorder{name: "b", order: &order},
	)

	handlerRan := false
	err := chain.Execute(NewContext(context.Background(), "s1", "hola"), func(c *Context) error {
		handlerRan = true
		return nil
	})
	if err == nil {
		t.Error("Expected error from failing middleware")
	}
	if handlerRan {
		t.Error("Handler should not run after a middleware error")
	}
}

func TestEmptyChainRunsHandler(t *testing.T) {
	chain := NewChain()

	ran := false
	err := chain.Execute(NewContext(context.Background(), "s1", "hola"), func(c *Context) error {
		ran = true
		c.Category = router.CategoryCourses
		c.Response = "claro"
		return nil
	})
	if err != nil || !ran {
		t.Errorf("Expected handler to run, err=%v", err)
	}
}

func TestContextCarriesTurnData(t *testing.T) {
	ctx := NewContext(context.Background(), "sess", "mensaje")

	if ctx.SessionID != "sess" || ctx.Input != "mensaje" {
		t.Error("Context should carry session id and input")
	}
	if ctx.Metadata == nil {
		t.Error("Expected initialized metadata map")
	}
	if ctx.Context() == nil {
		t.Error("Expected underlying context")
	}
}

func TestLoggersPassThrough(t *testing.T) {
	chain := NewChain(NewRequestLogger(), NewResponseLogger())

	ctx := NewContext(context.Background(), "s1", "hola")
	err := chain.Execute(ctx, func(c *Context) error {
		c.Response = "ok"
		return nil
	})
	if err != nil {
		t.Errorf("Logging middlewares should not alter the result: %v", err)
	}
}
