package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Client selection values for the DIAL_CLIENT variable.
const (
	ClientDial = "dial" // library-backed client
	ClientHTTP = "http" // direct HTTP client with request/response logging
)

// Config holds everything the CLI needs to construct a client and run a
// session. It is resolved once, before any client is constructed.
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	Client     string
	Stream     bool
}

// Load reads configuration from the environment, loading a local .env
// file first when present. The API key is required.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := Config{
		APIKey:     getEnv("DIAL_API_KEY", ""),
		Endpoint:   getEnv("DIAL_ENDPOINT", "https://ai-proxy.lab.epam.com"),
		Deployment: getEnv("DIAL_DEPLOYMENT", "gpt-4"),
		Client:     getEnv("DIAL_CLIENT", ClientDial),
		Stream:     getBoolEnv("DIAL_STREAM", true),
	}

	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("DIAL_API_KEY is required")
	}
	if cfg.Client != ClientDial && cfg.Client != ClientHTTP {
		return Config{}, fmt.Errorf("DIAL_CLIENT must be %q or %q, got %q", ClientDial, ClientHTTP, cfg.Client)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid value for %s: %q, using default", key, value)
		return defaultValue
	}
	return parsed
}
