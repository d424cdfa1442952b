// Package config provides configuration loading and validation for the bot.
// Values come from defaults, an optional config.yaml, and BOT_* environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls logging level and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds transport settings. ChannelID is the channel users must
// join before the bot serves them; AdminUserID may run the mailing command.
type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	ChannelID   string `mapstructure:"channel_id"    validate:"required"`
	ChannelLink string `mapstructure:"channel_link"  validate:"required,url"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"required,gt=0"`

	// BotInfo is populated at startup from GetMe, not from the config file.
	BotInfo *models.User `mapstructure:"-"`
}

// GeminiConfig holds AI provider settings.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"             validate:"required"`
	ChatModel         string        `mapstructure:"chat_model"          validate:"required"`
	CodeModel         string        `mapstructure:"code_model"          validate:"required"`
	VisionModel       string        `mapstructure:"vision_model"        validate:"required"`
	ImageModel        string        `mapstructure:"image_model"         validate:"required"`
	Temperature       float32       `mapstructure:"temperature"         validate:"min=0,max=2"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"min=1s,max=10m"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"min=0,max=10"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"min=1,max=60"`
}

// SessionConfig bounds per-user conversational state.
type SessionConfig struct {
	Cooldown         time.Duration `mapstructure:"cooldown"           validate:"min=1s,max=10m"`
	HistoryMaxTurns  int           `mapstructure:"history_max_turns"  validate:"min=1,max=100"`
	HistoryMaxLength int           `mapstructure:"history_max_length" validate:"min=500,max=100000"`
	ImageDir         string        `mapstructure:"image_dir"          validate:"required"`
	ImageMaxAge      time.Duration `mapstructure:"image_max_age"      validate:"min=1m"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TaskConfig describes a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds all user-facing message templates.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"         validate:"required"`
	BackToMenu     string `mapstructure:"back_to_menu"    validate:"required"`
	EnterPrompt    string `mapstructure:"enter_prompt"    validate:"required"`
	EnterQuery     string `mapstructure:"enter_query"     validate:"required"`
	SendPhoto      string `mapstructure:"send_photo"      validate:"required"`
	PhotoRequired  string `mapstructure:"photo_required"  validate:"required"`
	Thinking       string `mapstructure:"thinking"        validate:"required"`
	Drawing        string `mapstructure:"drawing"         validate:"required"`
	Coding         string `mapstructure:"coding"          validate:"required"`
	Looking        string `mapstructure:"looking"         validate:"required"`
	Searching      string `mapstructure:"searching"       validate:"required"`
	Busy           string `mapstructure:"busy"            validate:"required"`
	RateLimited    string `mapstructure:"rate_limited"    validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
	NotAuthorized  string `mapstructure:"not_authorized"  validate:"required"`
	JoinChannel    string `mapstructure:"join_channel"    validate:"required"`
	JoinButton     string `mapstructure:"join_button"     validate:"required"`
	JoinedButton   string `mapstructure:"joined_button"   validate:"required"`
	EnterMailing   string `mapstructure:"enter_mailing"   validate:"required"`
	MailingStarted string `mapstructure:"mailing_started" validate:"required"`
	MailingDone    string `mapstructure:"mailing_done"    validate:"required"`
	Description    string `mapstructure:"description"     validate:"required"`
}

// Load reads configuration from defaults, config.yaml (optional), and BOT_*
// environment variables, then validates the result.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine, defaults plus env cover everything.
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
