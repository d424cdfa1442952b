package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pentabot/pentabot/internal/session"
)

// NewModeInputHandler returns the default handler. It receives every message
// that no command or button matched and treats it as the awaited input for
// the user's current mode.
func NewModeInputHandler(deps HandlerDeps) bot.HandlerFunc {
	return modeInputHandler{deps}.Handle
}

type modeInputHandler struct {
	deps HandlerDeps
}

func (h modeInputHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "mode_input")

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	userID := msg.From.ID
	chatID := msg.Chat.ID
	mode := deps.Machine.Mode(userID)

	if mode == session.ModeMailing {
		h.handleMailingInput(ctx, b, msg)
		return
	}

	// Vision requires an attached photo; re-prompt without consuming the
	// cooldown. A busy session still gets the static wait message first.
	if mode == session.ModeVision && len(msg.Photo) == 0 {
		if deps.Machine.Processing(userID) {
			sendBusy(ctx, b, deps, chatID)
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   deps.Config.Messages.PhotoRequired,
		}); err != nil {
			log.ErrorContext(ctx, "Failed to send photo-required message", "error", err, "chat_id", chatID)
		}
		return
	}

	begin := deps.Machine.Admit(userID)
	switch begin.Status {
	case session.NotAwaiting:
		log.DebugContext(ctx, "Message outside any mode, ignoring", "user_id", userID)
		return

	case session.Busy:
		sendBusy(ctx, b, deps, chatID)
		return

	case session.RateLimited:
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf(deps.Config.Messages.RateLimited, begin.RemainingSeconds),
		}); err != nil {
			log.ErrorContext(ctx, "Failed to send rate limit message", "error", err, "chat_id", chatID)
		}
		return
	}

	// Admitted: acknowledge immediately, then run the generation.
	ack, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ackText(deps, begin.Mode),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send acknowledgment", "error", err, "chat_id", chatID)
	}

	action := models.ChatActionTyping
	if begin.Mode == session.ModeImage {
		action = models.ChatActionUploadPhoto
	}
	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: action})

	in := session.Input{Text: msg.Text, Caption: msg.Caption}

	if begin.Mode == session.ModeVision {
		path, dlErr := downloadPhotoToFile(ctx, b, deps, msg.Photo)
		if dlErr != nil {
			log.ErrorContext(ctx, "Failed to fetch photo for recognition", "error", dlErr, "chat_id", chatID)
			deps.Machine.Abort(userID)
			sendGeneralError(ctx, b, deps, chatID)
			return
		}
		defer removeTransientFile(ctx, deps, path)
		in.ImagePath = path
	}

	genCtx, cancel := context.WithTimeout(ctx, deps.Config.Gemini.Timeout)
	defer cancel()

	out, err := deps.Machine.Generate(genCtx, userID, in)
	if err != nil {
		log.ErrorContext(ctx, "Generation failed", "error", err, "user_id", userID, "mode", begin.Mode.String())
		sendGeneralError(ctx, b, deps, chatID)
		return
	}

	if len(out.Image) > 0 {
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: chatID,
			Photo: &models.InputFileUpload{
				Filename: "generated_image.jpg",
				Data:     bytes.NewReader(out.Image),
			},
		})
	} else if ack != nil {
		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: ack.ID,
			Text:      out.Text,
		})
	} else {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: out.Text})
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to deliver generation result", "error", err, "chat_id", chatID)
	}
}

func ackText(deps HandlerDeps, mode session.Mode) string {
	switch mode {
	case session.ModeImage:
		return deps.Config.Messages.Drawing
	case session.ModeCode:
		return deps.Config.Messages.Coding
	case session.ModeVision:
		return deps.Config.Messages.Looking
	case session.ModeSearch:
		return deps.Config.Messages.Searching
	default:
		return deps.Config.Messages.Thinking
	}
}

func sendGeneralError(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   deps.Config.Messages.GeneralError,
	}); err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send error message", "error", err, "chat_id", chatID)
	}
}
