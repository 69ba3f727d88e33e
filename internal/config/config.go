package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config concentra toda la configuración del backend.
// Se carga desde variables de entorno (cmd/ carga .env antes vía godotenv).
type Config struct {
	Port        string
	Environment string

	LogLevel  string
	LogFormat string

	// Postgres. Si está vacío, el router cae a repos in-memory (modo dev).
	DatabaseURL string
	DBTimeout   time.Duration

	// Verificación de tokens (Authorization Gate).
	JWTSecret   string
	TokenExpiry time.Duration

	// Notificador webhook (opcional). Vacío => notificador de log.
	NotifyWebhookURL string
	NotifyTimeout    time.Duration
}

// Load lee la configuración desde el entorno con defaults de desarrollo.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DatabaseURL: getEnv("DB_DSN", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		NotifyTimeout:    getDurationEnv("NOTIFY_TIMEOUT_SEC", 10) * time.Second,
	}
}

// MustLoad es Load pero exige las variables críticas para producción.
func MustLoad() *Config {
	cfg := Load()
	if cfg.Environment == "production" {
		if cfg.DatabaseURL == "" {
			log.Fatal("config: DB_DSN es obligatoria en producción")
		}
		if cfg.JWTSecret == "" {
			log.Fatal("config: JWT_SECRET es obligatoria en producción")
		}
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback int) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q no es un entero válido, usando %d", key, v, fallback)
		return time.Duration(fallback)
	}
	return time.Duration(n)
}
