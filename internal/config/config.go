package config

import (
	"os"
	"strings"
)

type Config struct {
	Env       string
	HttpPort  string
	AccessKey string // S3_ACCESS_KEY, falls back to AWS_ACCESS_KEY_ID
	SecretKey string // S3_SECRET_KEY, falls back to AWS_SECRET_ACCESS_KEY
	Endpoint  string // default endpoint; empty means the backend's own default
	Region    string
	UseSSL    bool   // scheme for endpoints given without one
	DBDriver  string // sqlite|postgres
	DBPath    string // used when DBDriver=sqlite
	DBDsn     string // used when DBDriver=postgres (e.g., DATABASE_URL)
}

func Load() *Config {
	cfg := &Config{
		Env:       getEnv("APP_ENV", "dev"),
		HttpPort:  getEnv("HTTP_PORT", "8080"),
		AccessKey: getEnv("S3_ACCESS_KEY", getEnv("AWS_ACCESS_KEY_ID", "")),
		SecretKey: getEnv("S3_SECRET_KEY", getEnv("AWS_SECRET_ACCESS_KEY", "")),
		Endpoint:  getEnv("S3_ENDPOINT_URL", ""),
		Region:    getEnv("S3_REGION", getEnv("AWS_REGION", "us-east-1")),
		UseSSL:    getEnvBool("S3_USE_SSL", true),
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBPath:    getEnv("DB_PATH", "data/provisio.db"),
		DBDsn:     getEnv("DATABASE_URL", getEnv("DB_DSN", "")),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(os.Getenv(key))
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "yes"
}
