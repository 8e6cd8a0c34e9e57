package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Provider exposes the configuration surface the rest of the application
// depends on. Components take a Provider so tests can substitute their own.
type Provider interface {
	GetServerAddr() string
	GetDBUrl() string
	GetDBUser() string
	GetDBPass() string
	GetDBNs() string
	GetDBDb() string
	GetNimStartCount() int
	GetChatImplicitJoin() bool
}

// Config holds all configuration for the application, loaded from the
// environment.
type Config struct {
	ServerAddr string
	DBUrl      string
	DBUser     string
	DBPass     string
	DBNs       string
	DBDb       string

	// NimStartCount is the starting object count for new Nim sessions.
	NimStartCount int

	// ChatImplicitJoin controls whether appending a message to a chat the
	// sender does not belong to silently adds them as a participant.
	ChatImplicitJoin bool
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ServerAddr:       envOr("SERVER_ADDR", ":8080"),
		DBUrl:            os.Getenv("SURREAL_URL"),
		DBUser:           os.Getenv("SURREAL_USER"),
		DBPass:           os.Getenv("SURREAL_PASS"),
		DBNs:             os.Getenv("SURREAL_NS"),
		DBDb:             os.Getenv("SURREAL_DB"),
		NimStartCount:    envIntOr("NIM_START_COUNT", 21),
		ChatImplicitJoin: envBoolOr("CHAT_IMPLICIT_JOIN", false),
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		return nil, fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetDBUrl() string { return c.DBUrl }
func (c *Config) GetDBUser() string { return c.DBUser }
func (c *Config) GetDBPass() string { return c.DBPass }
func (c *Config) GetDBNs() string { return c.DBNs }
func (c *Config) GetDBDb() string { return c.DBDb }
func (c *Config) GetNimStartCount() int { return c.NimStartCount }
func (c *Config) GetChatImplicitJoin() bool { return c.ChatImplicitJoin }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envBoolOr(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default %t", key, v, fallback)
		return fallback
	}
	return b
}
