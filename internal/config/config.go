package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// app config, loaded once at startup
type Config struct {
	Port   string
	AppEnv string

	StoreDriver string
	Postgres    PostgresConfig
	SQLitePath  string
	MongoURI    string
	MongoDB     string

	// empty disables the redis deadline index and event bus
	RedisAddr string

	JWTSecret   string
	TokenTTL    time.Duration
	FrontendURL string
	CORSOrigins []string

	InvitationTTL time.Duration
	SweepSchedule string

	Judge JudgeConfig
	SMTP  SMTPConfig

	QuestionSeedFile string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
	SSLMode  string
}

// DSN builds the gorm postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

type JudgeConfig struct {
	BaseURL      string
	APIKey       string
	Host         string
	Timeout      time.Duration
	PollInterval time.Duration
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Enabled reports whether enough is set to attempt delivery.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != "" && s.Pass != ""
}

// LoadConfig reads a .env file when present, then the environment.
func LoadConfig() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		AppEnv:      getEnvOrDefault("APP_ENV", "production"),
		StoreDriver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverPostgres)),
		Postgres: PostgresConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			DB:       getEnvOrDefault("POSTGRES_DB", "mockwise"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "mockwise.db"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnvOrDefault("MONGO_DB_NAME", "interview-platform"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		FrontendURL:   strings.TrimRight(getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSOrigins:   splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		InvitationTTL: getEnvDuration("INVITATION_TTL", 7*24*time.Hour),
		SweepSchedule: getEnvOrDefault("SWEEP_SCHEDULE", "@every 30s"),
		Judge: JudgeConfig{
			BaseURL:      strings.TrimRight(getEnvOrDefault("JUDGE0_API_URL", "https://judge0-ce.p.rapidapi.com"), "/"),
			APIKey:       os.Getenv("JUDGE0_API_KEY"),
			Host:         getEnvOrDefault("JUDGE0_HOST", "judge0-ce.p.rapidapi.com"),
			Timeout:      getEnvDuration("JUDGE_TIMEOUT", 10*time.Second),
			PollInterval: getEnvDuration("JUDGE_POLL_INTERVAL", 500*time.Millisecond),
		},
		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: getEnvOrDefault("SMTP_PORT", "587"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
			From: os.Getenv("SMTP_FROM"),
		},
		QuestionSeedFile: os.Getenv("QUESTION_SEED_FILE"),
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	if cfg.JWTSecret == "" && cfg.AppEnv == "development" {
		cfg.JWTSecret = "dev"
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.StoreDriver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return errors.New("unsupported STORE_DRIVER: " + cfg.StoreDriver + ". Supported: postgres, sqlite, mongo")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if cfg.InvitationTTL <= 0 {
		return errors.New("INVITATION_TTL must be positive")
	}
	if cfg.Judge.Timeout <= 0 || cfg.Judge.PollInterval <= 0 {
		return errors.New("JUDGE_TIMEOUT and JUDGE_POLL_INTERVAL must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
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

// accepts Go durations ("90s") or plain seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
