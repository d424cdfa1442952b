package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/pentabot/pentabot/internal/session"
)

// RegisteredHandler represents a handler with its matching rule and
// middleware, ready for registration with the bot.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllHandlers initializes and returns the dispatch table: commands,
// menu buttons, and the subscription re-check callback. Mode input messages
// are handled by the default handler (NewModeInputHandler).
func RegisterAllHandlers(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["back_to_menu"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     ButtonBackToMenu,
		Handler:     NewBackToMenuHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}

	modeEntries := []struct {
		button string
		mode   session.Mode
		prompt string
	}{
		{ButtonTextGeneration, session.ModeText, deps.Config.Messages.EnterPrompt},
		{ButtonImageGeneration, session.ModeImage, deps.Config.Messages.EnterPrompt},
		{ButtonCodeGeneration, session.ModeCode, deps.Config.Messages.EnterPrompt},
		{ButtonImageRecognition, session.ModeVision, deps.Config.Messages.SendPhoto},
		{ButtonWebSearch, session.ModeSearch, deps.Config.Messages.EnterQuery},
	}
	for _, e := range modeEntries {
		handlers[e.button] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     e.button,
			Handler:     NewModeEntryHandler(deps, e.mode, e.prompt),
			MatchType:   tgbot.MatchTypeExact,
		}
	}

	handlers["/mailing"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "mailing",
		Handler:     NewMailingHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  []tgbot.Middleware{AdminOnly(deps)},
	}

	handlers["subscribed"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     CallbackSubscribed,
		Handler:     NewSubscribedHandler(deps),
		MatchType:   tgbot.MatchTypeExact,
	}

	return handlers
}
