package configs

import (
	"fmt"
	"os"
)

type Config struct {
	AppPort string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3UseSSL     bool
	S3Bucket     string
	S3PublicBase string

	JWTSecret      string
	AuthServiceURL string

	KafkaBootstrap string
	RedisAddr      string
}

func LoadConfig() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", ":8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: getEnv("DB_PASSWORD", "postgres"),
		DBName: getEnv("DB_NAME", "community_db"),

		S3Endpoint:   getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", "minio"),
		S3SecretKey:  getEnv("S3_SECRET_KEY", "minio123"),
		S3UseSSL:     getEnv("S3_USE_SSL", "false") == "true",
		S3Bucket:     getEnv("S3_BUCKET", "community-posts"),
		S3PublicBase: getEnv("S3_PUBLIC_BASE_URL", "http://localhost:9000"),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),

		KafkaBootstrap: getEnv("KAFKA_BOOTSTRAP_SERVERS", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
