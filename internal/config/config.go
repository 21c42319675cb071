package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

const (
	DriverSurreal  = "surreal"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

var validDrivers = map[string]bool{
	DriverSurreal:  true,
	DriverMongo:    true,
	DriverPostgres: true,
	DriverRedis:    true,
	DriverMemory:   true,
}

type Config struct {
	ServerPort  string
	AppEnv      string
	LogLevel    string
	StoreDriver string
	AddDelay    string
	DB          DBConfig
	Events      EventsConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseAddDelay returns the artificial latency injected before AddTodo persists.
// Validate must have accepted the config first.
func (c Config) ParseAddDelay() time.Duration {
	d, _ := time.ParseDuration(c.AddDelay)
	return d
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validDrivers[c.StoreDriver] {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be one of surreal, mongo, postgres, redis, memory", c.StoreDriver)
	}
	if c.StoreDriver == DriverMemory && c.AppEnv != "local" {
		return fmt.Errorf("STORE_DRIVER=memory must not be used in %s environment", c.AppEnv)
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		return fmt.Errorf("invalid DB_PORT %q: %w", c.DB.Port, err)
	}
	d, err := time.ParseDuration(c.AddDelay)
	if err != nil {
		return fmt.Errorf("invalid ADD_DELAY %q: %w", c.AddDelay, err)
	}
	if d < 0 {
		return fmt.Errorf("invalid ADD_DELAY %q: must not be negative", c.AddDelay)
	}
	return nil
}

type DBConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Name      string
	SSLMode   string
}

func (d DBConfig) addr() string {
	return net.JoinHostPort(d.Host, d.Port)
}

// SurrealURL is the websocket rpc endpoint; the client appends /rpc.
func (d DBConfig) SurrealURL() string {
	u := &url.URL{Scheme: "ws", Host: d.addr()}
	return u.String()
}

func (d DBConfig) MongoURI() string {
	u := &url.URL{
		Scheme: "mongodb",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.addr(),
		Path:   "/",
	}
	return u.String()
}

// MongoDatabase folds namespace and database into one name, since mongo has no namespaces.
func (d DBConfig) MongoDatabase() string {
	return d.Namespace + "_" + d.Name
}

func (d DBConfig) PostgresDSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.addr(),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

func (d DBConfig) RedisAddr() string {
	return d.addr()
}

func (d DBConfig) RedisPrefix() string {
	return d.Namespace + ":" + d.Name
}

type EventsConfig struct {
	RedisAddr string
	Channel   string
}

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(envOrDefault("STORE_DRIVER", DriverSurreal)),
		AddDelay:    envOrDefault("ADD_DELAY", "1250ms"),
		DB: DBConfig{
			Host:      envOrDefault("DB_HOST", "127.0.0.1"),
			Port:      envOrDefault("DB_PORT", "8000"),
			User:      envOrDefault("DB_USER", "root"),
			Password:  envOrDefault("DB_PASSWORD", "root"),
			Namespace: envOrDefault("DB_NAMESPACE", "leptos_examples"),
			Name:      envOrDefault("DB_NAME", "todos"),
			SSLMode:   envOrDefault("DB_SSLMODE", "disable"),
		},
		Events: EventsConfig{
			RedisAddr: os.Getenv("EVENTS_REDIS_ADDR"),
			Channel:   envOrDefault("EVENTS_CHANNEL", "todo-mutations"),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
