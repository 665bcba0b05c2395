package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	PostgresConnStr         string
	MongoURI                string
	MongoDB                 string
	JWTSecret               string
	FirebaseCredentialsPath string
	AuthMode                string
	FeedLimit               int
	NotifyLimit             int
	NotifyIncludeSelf       bool
	RemoteTimeout           time.Duration
}

// Load reads the configuration from the environment. A .env file, when
// present, is merged in first so its values are visible to every lookup
// below; real environment variables still win over the file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "juanleme"),
		JWTSecret:               getEnv("JWT_SECRET", "dev-secret-change-me"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		AuthMode:                getEnv("AUTH_MODE", "jwt"),
		FeedLimit:               getEnvInt("FEED_LIMIT", 20),
		NotifyLimit:             getEnvInt("NOTIFY_LIMIT", 20),
		NotifyIncludeSelf:       getEnvBool("NOTIFY_INCLUDE_SELF", true),
		RemoteTimeout:           time.Duration(getEnvInt("REMOTE_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
