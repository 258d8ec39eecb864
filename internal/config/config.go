package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI        string
	MongoDB         string
	Port            string
	APIPrefix       string
	JWTSecret       string
	LogLevel        string
	RabbitMQURL     string
	RabbitMQQueue   string
	ChannelPoolSize int
	ShutdownTimeout time.Duration
}

func LoadConfig() *Config {
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Println("error loading .env file:", err)
		} else {
			log.Println(".env file loaded")
		}
	} else {
		log.Println("using system environment variables")
	}

	return &Config{
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "storefront"),
		Port:            getEnv("PORT", "8080"),
		APIPrefix:       getEnv("API_PREFIX", "/store"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:   getEnv("RABBITMQ_QUEUE", "storefront_events"),
		ChannelPoolSize: getEnvAsInt("CHANNEL_POOL_SIZE", 10),
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT", 10)) * time.Second,
	}
}

// EventsEnabled indica si hay un broker configurado.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
