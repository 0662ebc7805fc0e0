package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultChunkSize is the chunk limit in bytes used when CHUNK_SIZE is unset.
const DefaultChunkSize = 8184

type Config struct {
	AIAPIKey        string
	GenModel        string
	AccurateModel   string
	ChunkSize       int
	AnnotateWorkers int
	FetchTimeoutSec int
	UseReadability  bool
	DatabaseURL     string
	AwsAccessKey    string
	AwsSecretKey    string
	AwsRegion       string
	BucketName      string
	Port            string
	JWTSecret       string
	LogLevel        string
	LogJSON         bool
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	return &Config{
		AIAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GenModel:        getEnv("GEN_MODEL", "gemini-1.5-flash"),
		AccurateModel:   getEnv("ACCURATE_MODEL", "gemini-1.5-pro"),
		ChunkSize:       getEnvInt("CHUNK_SIZE", DefaultChunkSize),
		AnnotateWorkers: getEnvInt("ANNOTATE_WORKERS", 1),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SECONDS", 30),
		UseReadability:  getEnvBool("USE_READABILITY", false),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		AwsAccessKey:    getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:    getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:       getEnv("AWS_REGION", "us-east-2"),
		BucketName:      getEnv("BUCKET_NAME", ""),
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogJSON:         getEnvBool("LOG_JSON", false),
	}
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(getEnv(key, ""))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a bool, using default %t", key, v, def)
		return def
	}
	return b
}
