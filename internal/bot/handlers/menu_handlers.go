package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pentabot/pentabot/internal/session"
)

// NewBackToMenuHandler returns a handler for the back-to-menu button. It
// clears the pending mode and shows the main menu again.
func NewBackToMenuHandler(deps HandlerDeps) bot.HandlerFunc {
	return backToMenuHandler{deps}.Handle
}

type backToMenuHandler struct {
	deps HandlerDeps
}

func (h backToMenuHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "back_to_menu")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !h.deps.Machine.Reset(userID) {
		sendBusy(ctx, b, h.deps, chatID)
		return
	}

	if err := h.deps.Store.UpsertUser(ctx, chatID); err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "chat_id", chatID)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.Messages.BackToMenu,
		ReplyMarkup: MainKeyboard(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send menu message", "error", err, "chat_id", chatID)
	}
}

// NewModeEntryHandler returns a handler for a mode selection button. It
// moves the user into the awaiting state for the mode and prompts for input.
func NewModeEntryHandler(deps HandlerDeps, mode session.Mode, prompt string) bot.HandlerFunc {
	h := modeEntryHandler{deps: deps, mode: mode, prompt: prompt}
	return h.Handle
}

type modeEntryHandler struct {
	deps   HandlerDeps
	mode   session.Mode
	prompt string
}

func (h modeEntryHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "mode_entry", "mode", h.mode.String())

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !h.deps.Machine.EnterMode(userID, h.mode) {
		sendBusy(ctx, b, h.deps, chatID)
		return
	}

	log.InfoContext(ctx, "User entered mode", "user_id", userID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.prompt,
		ReplyMarkup: BackKeyboard(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send mode prompt", "error", err, "chat_id", chatID)
	}
}

func sendBusy(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.Busy,
	}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send busy message", "error", err, "chat_id", chatID)
	}
}
