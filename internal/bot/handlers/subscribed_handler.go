package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSubscribedHandler returns a handler for the "I joined" callback button.
// By the time it runs the subscription middleware has already re-checked
// membership, so the user is admitted: register them and show the menu.
func NewSubscribedHandler(deps HandlerDeps) bot.HandlerFunc {
	return subscribedHandler{deps}.Handle
}

type subscribedHandler struct {
	deps HandlerDeps
}

func (h subscribedHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "subscribed")

	if update.CallbackQuery == nil {
		return
	}

	userID := update.CallbackQuery.From.ID

	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	}); err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err, "user_id", userID)
	}

	if err := h.deps.Store.UpsertUser(ctx, userID); err != nil {
		log.ErrorContext(ctx, "Failed to register user", "error", err, "user_id", userID)
	}
	h.deps.Machine.Reset(userID)

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      userID,
		Text:        h.deps.Config.Messages.Welcome,
		ReplyMarkup: MainKeyboard(),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to send welcome message", "error", err, "user_id", userID)
	}
}
