package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"STORE", "JWT_SECRET", "TOKEN_TTL", "UPLOAD_WINDOW", "LEADERBOARD_LIMIT", "MODERATION", "KAFKA_BROKERS", "KAFKA_WRITE_TIMEOUT"} {
		t.Setenv(k, "")
	}
	t.Setenv("ENV", "development")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Store != StorePostgres || cfg.UploadWindow != 180*time.Minute || cfg.LeaderboardLimit != 25 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Moderation || cfg.KafkaBrokers != nil || cfg.TokenTTL != time.Hour || cfg.KafkaWriteTimeout != 2*time.Second {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("development should fall back to a dev secret")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("UPLOAD_WINDOW", "45m")
	t.Setenv("LEADERBOARD_LIMIT", "10")
	t.Setenv("MODERATION", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_WRITE_TIMEOUT", "500ms")
	t.Setenv("TOKEN_TTL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsProduction() || cfg.Store != StoreMemory || cfg.UploadWindow != 45*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LeaderboardLimit != 10 || !cfg.Moderation {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.KafkaBrokers, []string{"k1:9092", "k2:9092"}) {
		t.Fatalf("unexpected brokers %q", cfg.KafkaBrokers)
	}
	if cfg.KafkaWriteTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected kafka timeout %v", cfg.KafkaWriteTimeout)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := map[string]map[string]string{
		"bad duration":      {"UPLOAD_WINDOW": "three hours"},
		"negative window":   {"UPLOAD_WINDOW": "-1m"},
		"bad limit":         {"LEADERBOARD_LIMIT": "many"},
		"zero limit":        {"LEADERBOARD_LIMIT": "0"},
		"bad bool":          {"MODERATION": "sometimes"},
		"bad kafka timeout": {"KAFKA_WRITE_TIMEOUT": "soon"},
		"unknown store":     {"STORE": "mongo"},
		"prod needs secret": {"ENV": "production", "JWT_SECRET": ""},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("ENV", "development")
			for _, k := range []string{"STORE", "JWT_SECRET", "TOKEN_TTL", "UPLOAD_WINDOW", "LEADERBOARD_LIMIT", "MODERATION", "KAFKA_WRITE_TIMEOUT"} {
				t.Setenv(k, "")
			}
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
