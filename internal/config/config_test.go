package config_test

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jaekwang-park/todo-app/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_PORT", "APP_ENV", "LOG_LEVEL", "STORE_DRIVER", "ADD_DELAY",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAMESPACE", "DB_NAME", "DB_SSLMODE",
		"EVENTS_REDIS_ADDR", "EVENTS_CHANNEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "8080"},
		{"AppEnv", cfg.AppEnv, "local"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"StoreDriver", cfg.StoreDriver, "surreal"},
		{"AddDelay", cfg.AddDelay, "1250ms"},
		{"DB.Host", cfg.DB.Host, "127.0.0.1"},
		{"DB.Port", cfg.DB.Port, "8000"},
		{"DB.User", cfg.DB.User, "root"},
		{"DB.Password", cfg.DB.Password, "root"},
		{"DB.Namespace", cfg.DB.Namespace, "leptos_examples"},
		{"DB.Name", cfg.DB.Name, "todos"},
		{"DB.SSLMode", cfg.DB.SSLMode, "disable"},
		{"Events.RedisAddr", cfg.Events.RedisAddr, ""},
		{"Events.Channel", cfg.Events.Channel, "todo-mutations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "alpha")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("ADD_DELAY", "0s")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "admin")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAMESPACE", "demo")
	t.Setenv("DB_NAME", "tasks")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("EVENTS_REDIS_ADDR", "redis:6379")
	t.Setenv("EVENTS_CHANNEL", "changes")

	cfg := config.Load()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ServerPort", cfg.ServerPort, "9090"},
		{"AppEnv", cfg.AppEnv, "alpha"},
		{"LogLevel", cfg.LogLevel, "debug"},
		{"StoreDriver", cfg.StoreDriver, "postgres"},
		{"AddDelay", cfg.AddDelay, "0s"},
		{"DB.Host", cfg.DB.Host, "db.example.com"},
		{"DB.Port", cfg.DB.Port, "5432"},
		{"DB.User", cfg.DB.User, "admin"},
		{"DB.Password", cfg.DB.Password, "secret"},
		{"DB.Namespace", cfg.DB.Namespace, "demo"},
		{"DB.Name", cfg.DB.Name, "tasks"},
		{"DB.SSLMode", cfg.DB.SSLMode, "require"},
		{"Events.RedisAddr", cfg.Events.RedisAddr, "redis:6379"},
		{"Events.Channel", cfg.Events.Channel, "changes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestDBConfig_Addresses(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PASSWORD", "p@ss/w#rd?")

	cfg := config.Load()

	if got := cfg.DB.SurrealURL(); got != "ws://127.0.0.1:8000" {
		t.Errorf("SurrealURL=%s, want ws://127.0.0.1:8000", got)
	}

	mongoURI := cfg.DB.MongoURI()
	if !strings.HasPrefix(mongoURI, "mongodb://") {
		t.Errorf("MongoURI=%s, want mongodb:// prefix", mongoURI)
	}
	if !strings.Contains(mongoURI, "root:p%40ss%2Fw%23rd%3F@127.0.0.1:8000") {
		t.Errorf("MongoURI=%s, want escaped credentials and host", mongoURI)
	}

	dsn := cfg.DB.PostgresDSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("DSN=%s, want postgres:// prefix", dsn)
	}
	if !strings.Contains(dsn, "/todos?sslmode=disable") {
		t.Errorf("DSN=%s, want database and sslmode", dsn)
	}

	if got := cfg.DB.MongoDatabase(); got != "leptos_examples_todos" {
		t.Errorf("MongoDatabase=%s, want leptos_examples_todos", got)
	}
	if got := cfg.DB.RedisPrefix(); got != "leptos_examples:todos" {
		t.Errorf("RedisPrefix=%s, want leptos_examples:todos", got)
	}
	if got := cfg.DB.RedisAddr(); got != "127.0.0.1:8000" {
		t.Errorf("RedisAddr=%s, want 127.0.0.1:8000", got)
	}
}

func TestConfig_ParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"empty defaults to info", "", slog.LevelInfo},
		{"invalid defaults to info", "verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LOG_LEVEL", tt.value)

			if got := config.Load().ParseLogLevel(); got != tt.want {
				t.Errorf("LOG_LEVEL=%q: got %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_ParseAddDelay(t *testing.T) {
	clearEnv(t)
	if got := config.Load().ParseAddDelay(); got != 1250*time.Millisecond {
		t.Errorf("got %v, want 1.25s", got)
	}

	t.Setenv("ADD_DELAY", "0")
	if got := config.Load().ParseAddDelay(); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		env     string
		driver  string
		dbPort  string
		delay   string
		wantErr string
	}{
		{"valid surreal", "8080", "local", "surreal", "8000", "1250ms", ""},
		{"valid mongo", "8080", "local", "mongo", "27017", "1250ms", ""},
		{"valid postgres prod", "80", "prod", "postgres", "5432", "0s", ""},
		{"valid redis beta", "8080", "beta", "redis", "6379", "10ms", ""},
		{"valid memory local", "8080", "local", "memory", "8000", "0", ""},
		{"invalid port", "abc", "local", "mongo", "8000", "0", "invalid SERVER_PORT"},
		{"invalid env", "8080", "staging", "mongo", "8000", "0", "invalid APP_ENV"},
		{"invalid driver", "8080", "local", "sqlite", "8000", "0", "invalid STORE_DRIVER"},
		{"memory outside local", "8080", "prod", "memory", "8000", "0", "must not be used in prod"},
		{"invalid db port", "8080", "local", "mongo", "x", "0", "invalid DB_PORT"},
		{"invalid delay", "8080", "local", "mongo", "8000", "soon", "invalid ADD_DELAY"},
		{"negative delay", "8080", "local", "mongo", "8000", "-1s", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SERVER_PORT", tt.port)
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("STORE_DRIVER", tt.driver)
			t.Setenv("DB_PORT", tt.dbPort)
			t.Setenv("ADD_DELAY", tt.delay)

			err := config.Load().Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}
