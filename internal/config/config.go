package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver    string // sqlite | postgres
	DatabaseURL string
	DBPath      string

	JWTSecret string

	BusinessName   string
	CurrencyPrefix string

	StorageDriver    string // local | s3
	StorageLocalRoot string
	StorageURL       string
	S3Bucket         string
	S3Region         string
	S3Key            string
	S3Secret         string
	S3Endpoint       string
	S3URL            string

	SeedSampleData    bool
	LowStockThreshold int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		AppEnv:            get("APP_ENV", "development"),
		Port:              get("PORT", "3000"),
		DBDriver:          strings.ToLower(get("DB_DRIVER", "sqlite")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBPath:            get("DB_PATH", "bizkeeper.db"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		BusinessName:      get("BUSINESS_NAME", "The Feathers"),
		CurrencyPrefix:    get("CURRENCY_PREFIX", "Rs."),
		StorageDriver:     strings.ToLower(get("STORAGE_DRIVER", "local")),
		StorageLocalRoot:  get("STORAGE_LOCAL_ROOT", "storage"),
		StorageURL:        get("STORAGE_URL", "http://localhost:3000/storage"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          get("S3_REGION", "us-east-1"),
		S3Key:             os.Getenv("S3_KEY"),
		S3Secret:          os.Getenv("S3_SECRET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3URL:             os.Getenv("S3_URL"),
		SeedSampleData:    getBool("SEED_SAMPLE_DATA", true),
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 5),
	}

	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		log.Println("Warning: DB_DRIVER=postgres without DATABASE_URL, falling back to DB_* variables")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
