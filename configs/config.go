package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	MongoURI          string
	MongoDBName       string
	RedisHost         string
	RedisPort         int
	SecretKey         string
	TokenExpireDays   int
	MinPasswordLength int
	AdminEmail        string
	AdminPassword     string
	OwnershipField    string
}

// getEnv mengambil environment variable dengan nilai default jika kosong.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func LoadConfig() Config {
	// Muat file .env
	if err := godotenv.Load(); err != nil {
		// Hanya log jika tidak dalam mode test
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		Port:              getEnv("PORT", "3004"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "tugas"),
		RedisHost:         getEnv("REDIS_HOST", "localhost"),
		RedisPort:         getEnvInt("REDIS_PORT", 6379),
		SecretKey:         getEnv("SECRET_KEY", "secret"),
		TokenExpireDays:   getEnvInt("TOKEN_EXPIRE_DAYS", 3),
		MinPasswordLength: getEnvInt("MIN_PASSWORD_LENGTH", 8),
		AdminEmail:        getEnv("DEFAULT_ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:     getEnv("DEFAULT_ADMIN_PASSWORD", "admin12345"),
		OwnershipField:    getEnv("OWNERSHIP_FIELD", "created_by"),
	}
}
