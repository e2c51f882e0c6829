package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	JWTSecret               string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	AuditDatabase           string
	RedisURL                string
	RateLimitBackend        string
	SMTPAddr                string
	SMTPFrom                string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		AuditDatabase:           getEnv("AUDIT_DATABASE", "pulsefeed"),
		RedisURL:                getEnv("REDIS_URL", ""),
		RateLimitBackend:        getEnv("RATE_LIMIT_BACKEND", "memory"),
		SMTPAddr:                getEnv("SMTP_ADDR", ""),
		SMTPFrom:                getEnv("SMTP_FROM", "notifications@pulsefeed.local"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
