package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pentabot/pentabot/internal/session"
)

// NewMailingHandler returns a handler for the admin /mailing command. The
// next message from the admin is broadcast to every registered user.
func NewMailingHandler(deps HandlerDeps) bot.HandlerFunc {
	return mailingHandler{deps}.Handle
}

type mailingHandler struct {
	deps HandlerDeps
}

func (h mailingHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "mailing")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !h.deps.Machine.EnterMode(userID, session.ModeMailing) {
		sendBusy(ctx, b, h.deps, chatID)
		return
	}

	log.InfoContext(ctx, "Admin started mailing", "user_id", userID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        h.deps.Config.Messages.EnterMailing,
		ReplyMarkup: BackKeyboard(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send mailing prompt", "error", err, "chat_id", chatID)
	}
}

// handleMailingInput broadcasts the admin's message to all registered users.
// Per-recipient failures are logged and skipped; they never abort the rest
// of the broadcast.
func (h modeInputHandler) handleMailingInput(ctx context.Context, b *bot.Bot, msg *models.Message) {
	deps := h.deps
	log := deps.Logger.With("handler", "mailing")

	userID := msg.From.ID
	chatID := msg.Chat.ID

	if userID != deps.Config.Telegram.AdminUserID {
		// Mailing mode is only entered via the admin-gated command; a
		// non-admin here means a stale session, so clear it.
		deps.Machine.Reset(userID)
		return
	}

	deps.Machine.Reset(userID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.MailingStarted,
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send mailing start message", "error", err, "chat_id", chatID)
	}

	users, err := deps.Store.ListUsers(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list users for mailing", "error", err)
		sendGeneralError(ctx, b, deps, chatID)
		return
	}

	delivered, failed := 0, 0
	for _, u := range users {
		if ctx.Err() != nil {
			log.WarnContext(ctx, "Mailing interrupted", "delivered", delivered, "failed", failed)
			break
		}
		if _, err := b.CopyMessage(ctx, &bot.CopyMessageParams{
			ChatID:     u.ChatID,
			FromChatID: chatID,
			MessageID:  msg.ID,
		}); err != nil {
			failed++
			log.WarnContext(ctx, "Failed to deliver mailing message", "recipient", u.ChatID, "error", err)
			continue
		}
		delivered++
	}

	log.InfoContext(ctx, "Mailing finished", "delivered", delivered, "failed", failed)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        fmt.Sprintf(deps.Config.Messages.MailingDone, delivered, failed),
		ReplyMarkup: MainKeyboard(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send mailing summary", "error", err, "chat_id", chatID)
	}
}
