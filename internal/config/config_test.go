package config

import "testing"

func TestLoadReturnsDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddress != defaultHTTPAddress {
		t.Fatalf("unexpected http address: %s", cfg.HTTPAddress)
	}
	if cfg.DatabasePath != defaultDatabasePath {
		t.Fatalf("unexpected database path: %s", cfg.DatabasePath)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	if cfg.ReplyDelayMS != defaultReplyDelayMS {
		t.Fatalf("unexpected reply delay: %d", cfg.ReplyDelayMS)
	}
}

func TestLoadRejectsBlankAddress(t *testing.T) {
	configViper := NewViper()
	configViper.Set("http.address", "   ")
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected validation error for blank address")
	}
}

func TestLoadRejectsNegativeReplyDelay(t *testing.T) {
	configViper := NewViper()
	configViper.Set("assistant.reply_delay_ms", -1)
	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected validation error for negative delay")
	}
}
