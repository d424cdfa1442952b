package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/pentabot/pentabot/internal/config"
)

// Reply keyboard button labels. The registry matches inbound messages
// against these exact strings.
const (
	ButtonTextGeneration   = "Text Generation"
	ButtonImageGeneration  = "Image Generation"
	ButtonCodeGeneration   = "Code Generation"
	ButtonImageRecognition = "Image Recognition"
	ButtonWebSearch        = "Web Search"
	ButtonBackToMenu       = "Back to Menu"
)

// CallbackSubscribed is the callback data of the "I joined" inline button.
const CallbackSubscribed = "subscribed"

// MainKeyboard builds the main menu reply keyboard (rows of 3, 1, 1).
func MainKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{
				{Text: ButtonTextGeneration},
				{Text: ButtonImageGeneration},
				{Text: ButtonCodeGeneration},
			},
			{{Text: ButtonImageRecognition}},
			{{Text: ButtonWebSearch}},
		},
		ResizeKeyboard: true,
	}
}

// BackKeyboard builds a reply keyboard with only the back-to-menu button.
func BackKeyboard() *models.ReplyKeyboardMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: ButtonBackToMenu}},
		},
		ResizeKeyboard: true,
	}
}

// SubscribeKeyboard builds the inline keyboard shown to users who have not
// joined the channel yet: a join link and a re-check button.
func SubscribeKeyboard(cfg *config.Config) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: cfg.Messages.JoinButton, URL: cfg.Telegram.ChannelLink}},
			{{Text: cfg.Messages.JoinedButton, CallbackData: CallbackSubscribed}},
		},
	}
}
