package store

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/sweetpotato0/edubot/errors"
	"github.com/sweetpotato0/edubot/router"
	"github.com/sweetpotato0/edubot/session"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	record := &session.Record{ID: "r1", State: session.StateActive, LastCategory: router.CategorySales}
	if err := s.Save(ctx, record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastCategory != router.CategorySales {
		t.Errorf("Expected sales category, got '%s'", loaded.LastCategory)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Load(context.Background(), "nope"); !goerrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreSaveNil(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Save(context.Background(), nil); err == nil {
		t.Error("Expected error for nil record")
	}
}

func TestMemoryStoreDeleteAndExists(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Save(ctx, &session.Record{ID: "r1"})
	if ok, _ := s.Exists(ctx, "r1"); !ok {
		t.Error("Expected record to exist")
	}

	if err := s.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "r1"); ok {
		t.Error("Expected record removed")
	}
}

func TestMemoryStoreCountAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Save(ctx, &session.Record{ID: "a"})
	s.Save(ctx, &session.Record{ID: "b"})

	count, _ := s.Count(ctx)
	if count != 2 {
		t.Errorf("Expected 2 records, got %d", count)
	}
	ids, _ := s.List(ctx)
	if len(ids) != 2 {
		t.Errorf("Expected 2 ids, got %v", ids)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	record := &session.Record{ID: "copy"}
	s.Save(ctx, record)
	record.LastCategory = router.CategoryCareers

	loaded, _ := s.Load(ctx, "copy")
	if loaded.LastCategory != router.CategoryNone {
		t.Error("Store should hold a copy, not the caller's record")
	}
}

func TestManagerRevivesFromStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Persist a session, drop the live manager, then revive with a new one.
	first := session.NewManager(session.WithStore(s))
	sess, _ := first.GetOrCreate(ctx, "revive")
	sess.Turn(func(ss *session.Session) error {
		ss.LastCategory = router.CategorySales
		ss.Context.CurrentCourse = "Gestión de Bases de Datos con SQL"
		return nil
	})
	if err := first.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := session.NewManager(session.WithStore(s))
	revived, err := second.GetOrCreate(ctx, "revive")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if revived.LastCategory != router.CategorySales {
		t.Errorf("Expected sales category restored, got '%s'", revived.LastCategory)
	}
	if revived.Context.CurrentCourse != "Gestión de Bases de Datos con SQL" {
		t.Errorf("Expected course context restored, got '%s'", revived.Context.CurrentCourse)
	}
}
