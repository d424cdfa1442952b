package config_test

import (
	"testing"
	"time"

	"github.com/pentabot/pentabot/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_TELEGRAM_CHANNEL_ID", "@testchannel")
	t.Setenv("BOT_TELEGRAM_CHANNEL_LINK", "https://t.me/testchannel")
	t.Setenv("BOT_TELEGRAM_ADMIN_USER_ID", "42")
	t.Setenv("BOT_GEMINI_API_KEY", "test-api-key")
}

func TestLoadFailsWithoutRequiredValues(t *testing.T) {
	if _, err := config.Load(); err == nil {
		t.Fatal("expected validation error when required values are missing")
	}
}

func TestLoadAppliesEnvironmentAndDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("expected token from environment, got %q", cfg.Telegram.Token)
	}
	if cfg.Telegram.AdminUserID != 42 {
		t.Errorf("expected admin user id 42, got %d", cfg.Telegram.AdminUserID)
	}

	if cfg.Session.Cooldown != 10*time.Second {
		t.Errorf("expected default cooldown 10s, got %s", cfg.Session.Cooldown)
	}
	if cfg.Session.HistoryMaxTurns != 5 {
		t.Errorf("expected default history max turns 5, got %d", cfg.Session.HistoryMaxTurns)
	}
	if cfg.Session.HistoryMaxLength != 4096 {
		t.Errorf("expected default history max length 4096, got %d", cfg.Session.HistoryMaxLength)
	}
	if cfg.Gemini.ChatModel != config.DefaultGeminiChatModel {
		t.Errorf("expected default chat model, got %q", cfg.Gemini.ChatModel)
	}
	if cfg.Messages.Welcome == "" {
		t.Error("expected default welcome message to be set")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_SESSION_COOLDOWN", "30s")
	t.Setenv("BOT_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Session.Cooldown != 30*time.Second {
		t.Errorf("expected cooldown 30s, got %s", cfg.Session.Cooldown)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BOT_LOG_LEVEL", "verbose")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}
