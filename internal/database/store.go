package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for user registry operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUser registers a chat ID. It is a no-op if the ID is already known.
	UpsertUser(ctx context.Context, chatID int64) error

	// ListUsers returns all registered users ordered by registration time.
	ListUsers(ctx context.Context) ([]User, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx. It requires a connected sqlx.DB
// instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) UpsertUser(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("chat_id cannot be zero")
	}

	query := `
        INSERT INTO users (chat_id, created_at)
        VALUES (?, ?)
        ON CONFLICT (chat_id) DO NOTHING;
    `
	result, err := s.db.ExecContext(ctx, query, chatID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to upsert user %d: %w", chatID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 1 {
		s.logger.InfoContext(ctx, "Registered new user", "chat_id", chatID)
	}
	return nil
}

func (s *sqlxStore) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	query := `
        SELECT id, chat_id, created_at
        FROM users
        ORDER BY created_at ASC, id ASC;
    `
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed users", "count", len(users))
	return users, nil
}

// RunMaintenance runs VACUUM, ANALYZE and PRAGMA optimize sequentially.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM;", "ANALYZE;", "PRAGMA optimize;"} {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Maintenance statement failed", "statement", stmt, "error", err)
			return fmt.Errorf("maintenance statement %q failed: %w", stmt, err)
		}
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
