package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Address != ":8080" {
		t.Errorf("server.address = %q", cfg.Server.Address)
	}
	if cfg.Guest.SessionTTL != 24*time.Hour {
		t.Errorf("guest.session_ttl = %v", cfg.Guest.SessionTTL)
	}
	if !cfg.Guest.Enabled {
		t.Error("guest mode should be enabled by default")
	}
	if cfg.RabbitMQ.RoutingKey != "course.grades_changed" {
		t.Errorf("rabbitmq.routing_key = %q", cfg.RabbitMQ.RoutingKey)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GUEST_SESSION_TTL", "90m")
	t.Setenv("DATABASE_PORT", "6543")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Guest.SessionTTL != 90*time.Minute {
		t.Errorf("guest.session_ttl = %v, want 90m", cfg.Guest.SessionTTL)
	}
	if cfg.Database.Port != 6543 {
		t.Errorf("database.port = %d, want 6543", cfg.Database.Port)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "u",
		Password: "p",
		Name:     "grades",
		SSLMode:  "disable",
	}

	want := "postgres://u:p@db:5432/grades?sslmode=disable"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
