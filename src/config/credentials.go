package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// Credentials for the SmartAPI session. APIKey, ClientID and Pin are
// mandatory; a missing TOTP secret is only warned about since the login may
// still be attempted while debugging.
type Credentials struct {
	APIKey     string
	ClientID   string
	Pin        string
	TOTPSecret string
}

func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		APIKey:     os.Getenv("ANGEL_API_KEY"),
		ClientID:   os.Getenv("ANGEL_CLIENT_ID"),
		Pin:        os.Getenv("ANGEL_PIN"),
		TOTPSecret: os.Getenv("ANGEL_TOTP"),
	}

	if creds.APIKey == "" || creds.ClientID == "" || creds.Pin == "" {
		return Credentials{}, fmt.Errorf("CredentialsFromEnv: missing critical Angel One credentials")
	}

	if creds.TOTPSecret == "" {
		log.Warn("ANGEL_TOTP is missing, login may fail")
	}

	return creds, nil
}

// TelegramConfig identifies the delivery chat.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

func TelegramFromEnv() (TelegramConfig, error) {
	cfg := TelegramConfig{
		BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}

	if cfg.BotToken == "" || cfg.ChatID == "" {
		return TelegramConfig{}, fmt.Errorf("TelegramFromEnv: missing Telegram credentials")
	}

	return cfg, nil
}
