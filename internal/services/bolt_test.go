package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/opensocial-lk/opensocial-web-ui/internal/models"
	"github.com/opensocial-lk/opensocial-web-ui/internal/services"
)

func newTestDB(t *testing.T) services.BoltDB {
	t.Helper()
	db, err := services.NewBoltDB(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewBoltDB() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

func TestMinimizedFlag(t *testing.T) {
	db := newTestDB(t)

	minimized, err := db.Minimized()
	if err != nil {
		t.Fatalf("Minimized() error = %v", err)
	}
	if minimized {
		t.Error("Minimized() = true on fresh store, absence must mean not minimized")
	}

	if err := db.SetMinimized(true); err != nil {
		t.Fatalf("SetMinimized(true) error = %v", err)
	}
	minimized, err = db.Minimized()
	if err != nil {
		t.Fatalf("Minimized() error = %v", err)
	}
	if !minimized {
		t.Error("Minimized() = false after SetMinimized(true)")
	}

	if err := db.SetMinimized(false); err != nil {
		t.Fatalf("SetMinimized(false) error = %v", err)
	}
	minimized, err = db.Minimized()
	if err != nil {
		t.Fatalf("Minimized() error = %v", err)
	}
	if minimized {
		t.Error("Minimized() = true after SetMinimized(false)")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, found, err := db.Draft(ctx); err != nil || found {
		t.Fatalf("Draft() on fresh store = found %v, err %v; want absent", found, err)
	}

	draft := models.Draft{
		Author:  "@nethmi",
		Content: "Working on the response pipeline today",
		SavedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := db.SaveDraft(ctx, draft); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}

	got, found, err := db.Draft(ctx)
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if !found {
		t.Fatal("Draft() not found after SaveDraft()")
	}
	if !got.SavedAt.Equal(draft.SavedAt) || got.Author != draft.Author || got.Content != draft.Content {
		t.Errorf("Draft() = %+v, want %+v", got, draft)
	}

	if err := db.ClearDraft(ctx); err != nil {
		t.Fatalf("ClearDraft() error = %v", err)
	}
	if _, found, _ := db.Draft(ctx); found {
		t.Error("Draft() still found after ClearDraft()")
	}
}

func TestUserRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := models.User{FirstName: "Sahan", LastName: "Perera", Email: "sahan@example.org"}
	if err := db.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	got, found, err := db.User(ctx)
	if err != nil {
		t.Fatalf("User() error = %v", err)
	}
	if !found {
		t.Fatal("User() not found after SaveUser()")
	}
	if got != user {
		t.Errorf("User() = %+v, want %+v", got, user)
	}
}
