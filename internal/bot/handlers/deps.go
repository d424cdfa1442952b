package handlers

import (
	"log/slog"

	"github.com/pentabot/pentabot/internal/config"
	"github.com/pentabot/pentabot/internal/database"
	"github.com/pentabot/pentabot/internal/session"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger  *slog.Logger
	Config  *config.Config
	Store   database.Store
	Machine *session.Machine
}
