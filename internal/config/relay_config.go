package config

import (
	"os"

	"github.com/joho/godotenv"
)

// RelayConfig holds configuration for the outbox relay service.
// This is a minimal config that only includes what the relay needs.
type RelayConfig struct {
	AppEnv          string
	DatabaseURL     string
	RabbitMQURL     string
	UserEventsQueue string
	HealthAddr      string
}

func LoadRelayConfig() *RelayConfig {
	_ = godotenv.Load()

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	return &RelayConfig{
		AppEnv:          envString("APP_ENV", "production"),
		DatabaseURL:     dbURL,
		RabbitMQURL:     rabbitURL,
		UserEventsQueue: envString("USER_EVENTS_QUEUE", "user-events"),
		HealthAddr:      envString("RELAY_HEALTH_ADDR", ":8090"),
	}
}
