package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := load()
	cfg.Auth.JWTSecret = strings.Repeat("s", 32)
	return cfg
}

func TestLoadGameDefaults(t *testing.T) {
	t.Setenv("GAME_DAILY_REWARD_AMOUNT", "")
	t.Setenv("GAME_DAILY_REWARD_COOLDOWN_HOURS", "")

	cfg := load()

	if !cfg.Game.DeathChanceEnabled {
		t.Error("death chance hook should be enabled by default")
	}
	if cfg.Game.DailyRewardAmount != 50 {
		t.Errorf("DailyRewardAmount = %d, want 50", cfg.Game.DailyRewardAmount)
	}
	if cfg.Game.DailyRewardCooldown != 24*time.Hour {
		t.Errorf("DailyRewardCooldown = %v, want 24h", cfg.Game.DailyRewardCooldown)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GAME_REWIND_COST_PER_STEP", "25")
	t.Setenv("GAME_DEATH_CHANCE_ENABLED", "false")
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := load()

	if cfg.Game.RewindCostPerStep != 25 {
		t.Errorf("RewindCostPerStep = %d, want 25", cfg.Game.RewindCostPerStep)
	}
	if cfg.Game.DeathChanceEnabled {
		t.Error("death chance hook should be disabled")
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.RateLimit.RequestsPerSecond)
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("invalid REDIS_DB should fall back to 0, got %d", cfg.Redis.DB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: "at least 32"},
		{name: "negative reward", mutate: func(c *Config) { c.Game.DailyRewardAmount = -1 }, wantErr: "must not be negative"},
		{name: "zero cache", mutate: func(c *Config) { c.Game.SessionCacheSize = 0 }, wantErr: "GAME_SESSION_CACHE_SIZE"},
		{name: "bad key encoding", mutate: func(c *Config) { c.Game.SaveEncryptionKey = "zz" }, wantErr: "hex encoded"},
		{name: "short key", mutate: func(c *Config) { c.Game.SaveEncryptionKey = "abcd" }, wantErr: "32 bytes"},
		{name: "good key", mutate: func(c *Config) { c.Game.SaveEncryptionKey = strings.Repeat("ab", 32) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestProviderConfigured(t *testing.T) {
	if (ProviderConfig{ClientID: "id"}).Configured() {
		t.Error("provider without secret should not be configured")
	}
	if !(ProviderConfig{ClientID: "id", ClientSecret: "secret"}).Configured() {
		t.Error("provider with id and secret should be configured")
	}
}
