package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	LogLevel string

	DatabaseDriver string
	DatabaseURL    string

	KafkaBrokers []string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ProductIndex    string
}

// Load reads the process environment, optionally seeded from the given .env
// files. Missing files are not an error.
func Load(envFiles ...string) Config {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			log.Printf("notice: .env not loaded: %v, using system environment", err)
		}
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "shop"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		DatabaseDriver: strings.ToLower(EnvDefault("DB_DRIVER", "postgres")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ElasticURL:      os.Getenv("ES_URL"),
		ElasticUser:     os.Getenv("ES_USER"),
		ElasticPassword: os.Getenv("ES_PASSWORD"),
		ProductIndex:    EnvDefault("ES_PRODUCT_INDEX", "products"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
