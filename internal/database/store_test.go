package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pentabot/pentabot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestUpsertUserIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.UpsertUser(ctx, 1001); err != nil {
			t.Fatalf("upsert %d failed: %v", i, err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user after repeated upserts, got %d", len(users))
	}
	if users[0].ChatID != 1001 {
		t.Errorf("expected chat_id 1001, got %d", users[0].ChatID)
	}
}

func TestUpsertUserRejectsZeroChatID(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.UpsertUser(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero chat_id")
	}
}

func TestListUsersReturnsAllRegistered(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	ids := []int64{10, 20, 30}
	for _, id := range ids {
		if err := store.UpsertUser(ctx, id); err != nil {
			t.Fatalf("upsert %d failed: %v", id, err)
		}
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != len(ids) {
		t.Fatalf("expected %d users, got %d", len(ids), len(users))
	}

	seen := make(map[int64]bool, len(users))
	for _, u := range users {
		seen[u.ChatID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("expected chat_id %d in listing", id)
		}
	}
}

func TestListUsersEmptyRegistry(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	users, err := store.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected empty listing, got %d users", len(users))
	}
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("maintenance failed: %v", err)
	}
}
