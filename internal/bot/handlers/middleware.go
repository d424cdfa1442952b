// Package handlers contains Telegram bot command and message handlers,
// their registration logic, and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// memberChecker is the subset of the bot API the subscription gate needs.
// *tgbot.Bot satisfies it; tests supply a fake.
type memberChecker interface {
	GetChatMember(ctx context.Context, params *tgbot.GetChatMemberParams) (*models.ChatMember, error)
}

// CheckMembership queries the user's membership in the configured channel.
// It returns false when the user has left the channel or when the lookup
// fails; admission errs toward blocking, never toward silently allowing.
func CheckMembership(ctx context.Context, mc memberChecker, channelID string, userID int64) (bool, error) {
	member, err := mc.GetChatMember(ctx, &tgbot.GetChatMemberParams{
		ChatID: channelID,
		UserID: userID,
	})
	if err != nil {
		return false, err
	}
	if member.Type == models.ChatMemberTypeLeft {
		return false, nil
	}
	return true, nil
}

// CheckSubscription creates a middleware that gates every inbound event on
// channel membership. Users who left the channel get a join prompt with a
// re-check button; lookup failures produce a generic error message.
func CheckSubscription(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "subscription")

			var userID, chatID int64
			switch {
			case update.Message != nil && update.Message.From != nil:
				userID = update.Message.From.ID
				chatID = update.Message.Chat.ID
			case update.CallbackQuery != nil:
				userID = update.CallbackQuery.From.ID
				chatID = update.CallbackQuery.From.ID
			default:
				// Nothing to gate on; let unrelated updates through.
				next(ctx, b, update)
				return
			}

			admitted, err := CheckMembership(ctx, b, deps.Config.Telegram.ChannelID, userID)
			if err != nil {
				log.ErrorContext(ctx, "Membership lookup failed, denying", "user_id", userID, "error", err)
				if _, sendErr := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.GeneralError,
				}); sendErr != nil {
					log.ErrorContext(ctx, "Failed to send error message", "error", sendErr, "chat_id", chatID)
				}
				return
			}

			if !admitted {
				log.InfoContext(ctx, "User not subscribed, sending join prompt", "user_id", userID)
				if _, sendErr := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID:      chatID,
					Text:        deps.Config.Messages.JoinChannel,
					ReplyMarkup: SubscribeKeyboard(deps.Config),
				}); sendErr != nil {
					log.ErrorContext(ctx, "Failed to send join prompt", "error", sendErr, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}

// AdminOnly creates a middleware that restricts a handler to the configured
// admin user.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				next(ctx, b, update)
				return
			}

			userID := update.Message.From.ID
			if userID != deps.Config.Telegram.AdminUserID {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "admin_only")
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)

				if _, err := b.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.NotAuthorized,
				}); err != nil {
					log.ErrorContext(ctx, "Failed to send unauthorized message", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, b, update)
		}
	}
}
