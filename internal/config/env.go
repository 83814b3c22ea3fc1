package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	CORSAllowedOrigins []string
}

func LoadEnv() Env {
	return Env{
		AppAddr: envOr("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBHost:     envOr("DB_HOST", "127.0.0.1"),
		DBPort:     envOr("DB_PORT", "3306"),
		DBUser:     envOr("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     envOr("DB_NAME", "sistema_recarga_viajes"),

		RedisHost:     envOr("REDIS_HOST", "127.0.0.1"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOr("REDIS_DB", 0),

		JWTSecret: envOr("JWT_SECRET", "super-secret-key-change-me"),

		CORSAllowedOrigins: splitCSV(envOr("CORS_ALLOWED_ORIGINS", "*")),
	}
}

// RedisAddr joins host and port in the form the client expects.
func (e Env) RedisAddr() string {
	return e.RedisHost + ":" + e.RedisPort
}

func envOr(name, fallback string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	return v
}

func envIntOr(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
