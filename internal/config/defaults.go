package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for optional configuration parameters.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = true

	DefaultGeminiChatModel   = "gemini-2.0-flash"
	DefaultGeminiCodeModel   = "gemini-2.0-flash"
	DefaultGeminiVisionModel = "gemini-2.0-flash"
	DefaultGeminiImageModel  = "imagen-3.0-generate-002"
	DefaultGeminiTemperature = 1.0
	DefaultGeminiTimeout     = 2 * time.Minute
	DefaultGeminiMaxRetries  = 2
	DefaultGeminiRetryDelay  = 5 // seconds

	DefaultSessionCooldown    = 10 * time.Second
	DefaultHistoryMaxTurns    = 5
	DefaultHistoryMaxLength   = 4096
	DefaultSessionImageDir    = "images"
	DefaultSessionImageMaxAge = time.Hour

	DefaultDBPath = "storage.db"
)

// DefaultMessages are the user-facing message templates. All of them can be
// overridden via config.yaml or BOT_MESSAGES_* environment variables.
var DefaultMessages = MessagesConfig{
	Welcome:        "Welcome! Choose an option from the menu.",
	BackToMenu:     "You are back in the menu!",
	EnterPrompt:    "Enter your prompt...",
	EnterQuery:     "Enter your search query...",
	SendPhoto:      "Send an image, with an optional caption...",
	PhotoRequired:  "Please send an image to analyze.",
	Thinking:       "The bot is thinking, please wait a moment...",
	Drawing:        "The bot is generating an image, please wait a moment...",
	Coding:         "The bot is generating code, please wait a moment...",
	Looking:        "The bot is processing the image, please wait a moment...",
	Searching:      "The bot is searching the web, please wait a moment...",
	Busy:           "Please wait, the bot is processing your request...",
	RateLimited:    "Please wait %d seconds before the next request.",
	GeneralError:   "An error occurred. Please try again.",
	NotAuthorized:  "You are not authorized to use this command.",
	JoinChannel:    "Hello! Since our bot is free, we kindly ask you to join our channel. After joining, press the button below.",
	JoinButton:     "Join Channel",
	JoinedButton:   "I joined!",
	EnterMailing:   "Please enter the message to send...",
	MailingStarted: "Mailing started",
	MailingDone:    "Mailing completed: %d delivered, %d failed",
	Description:    "AI assistant bot: text, images, code, photo recognition and web search. Press START to begin!",
}

func setDefaults() {
	// Required keys get empty defaults so viper knows them and environment
	// overrides reach Unmarshal; validation rejects the empty values.
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.channel_id", "")
	viper.SetDefault("telegram.channel_link", "")
	viper.SetDefault("telegram.admin_user_id", 0)
	viper.SetDefault("gemini.api_key", "")

	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.json", DefaultLogJSON)

	viper.SetDefault("gemini.chat_model", DefaultGeminiChatModel)
	viper.SetDefault("gemini.code_model", DefaultGeminiCodeModel)
	viper.SetDefault("gemini.vision_model", DefaultGeminiVisionModel)
	viper.SetDefault("gemini.image_model", DefaultGeminiImageModel)
	viper.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	viper.SetDefault("gemini.timeout", DefaultGeminiTimeout)
	viper.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	viper.SetDefault("gemini.retry_delay_seconds", DefaultGeminiRetryDelay)

	viper.SetDefault("session.cooldown", DefaultSessionCooldown)
	viper.SetDefault("session.history_max_turns", DefaultHistoryMaxTurns)
	viper.SetDefault("session.history_max_length", DefaultHistoryMaxLength)
	viper.SetDefault("session.image_dir", DefaultSessionImageDir)
	viper.SetDefault("session.image_max_age", DefaultSessionImageMaxAge)

	viper.SetDefault("database.path", DefaultDBPath)

	viper.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
	viper.SetDefault("scheduler.tasks.image_cleanup.enabled", true)
	viper.SetDefault("scheduler.tasks.image_cleanup.schedule", "*/30 * * * *")

	viper.SetDefault("messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("messages.back_to_menu", DefaultMessages.BackToMenu)
	viper.SetDefault("messages.enter_prompt", DefaultMessages.EnterPrompt)
	viper.SetDefault("messages.enter_query", DefaultMessages.EnterQuery)
	viper.SetDefault("messages.send_photo", DefaultMessages.SendPhoto)
	viper.SetDefault("messages.photo_required", DefaultMessages.PhotoRequired)
	viper.SetDefault("messages.thinking", DefaultMessages.Thinking)
	viper.SetDefault("messages.drawing", DefaultMessages.Drawing)
	viper.SetDefault("messages.coding", DefaultMessages.Coding)
	viper.SetDefault("messages.looking", DefaultMessages.Looking)
	viper.SetDefault("messages.searching", DefaultMessages.Searching)
	viper.SetDefault("messages.busy", DefaultMessages.Busy)
	viper.SetDefault("messages.rate_limited", DefaultMessages.RateLimited)
	viper.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	viper.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	viper.SetDefault("messages.join_channel", DefaultMessages.JoinChannel)
	viper.SetDefault("messages.join_button", DefaultMessages.JoinButton)
	viper.SetDefault("messages.joined_button", DefaultMessages.JoinedButton)
	viper.SetDefault("messages.enter_mailing", DefaultMessages.EnterMailing)
	viper.SetDefault("messages.mailing_started", DefaultMessages.MailingStarted)
	viper.SetDefault("messages.mailing_done", DefaultMessages.MailingDone)
	viper.SetDefault("messages.description", DefaultMessages.Description)
}
