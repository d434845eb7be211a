package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Telegram TelegramConfig
	Email    EmailConfig
	Matching MatchingConfig
}

type AppConfig struct {
	AppName          string
	Environment      string
	HTTPPort         string
	CORSAllowOrigins []string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	SQLitePath string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiresIn time.Duration
}

type AdminConfig struct {
	IDs        []int64
	APIKeyHash string
}

type TelegramConfig struct {
	Token string
}

const (
	EmailProviderNone = "none"
	EmailProviderSMTP = "smtp"
	EmailProviderSES  = "ses"
)

type EmailConfig struct {
	Provider  string
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	From      string
	AWSRegion string
}

type MatchingConfig struct {
	TimeZone           string
	Location           *time.Location
	LookbackWeeks      int
	Cooldown           time.Duration
	NotifyDelay        time.Duration
	StarterPromptsFile string
	StarterPrompts     []string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:          optDefault("APP_NAME", "random-coffee"),
		Environment:      optDefault("APP_ENV", "development"),
		HTTPPort:         optDefault("HTTP_PORT", "8080"),
		CORSAllowOrigins: splitCSV(optDefault("CORS_ALLOW_ORIGINS", "*")),
	}

	cfg.Database = DatabaseConfig{
		Driver:                strings.ToLower(optDefault("DB_DRIVER", DriverPostgres)),
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             optDefault("DB_SSL_MODE", "disable"),
		SQLitePath:            optDefault("SQLITE_PATH", "random-coffee.db"),
		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}
	switch cfg.Database.Driver {
	case DriverPostgres:
		req("DB_HOST")
		req("DB_NAME")
	case DriverSQLite:
	default:
		invalid = append(invalid, "DB_DRIVER")
	}

	cfg.Redis = RedisConfig{
		Host:     optDefault("REDIS_HOST", "localhost"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: optDuration("JWT_ACCESS_EXPIRES_IN", 12*time.Hour),
	}

	adminIDs, err := parseIDs(opt("ADMIN_IDS"))
	if err != nil {
		invalid = append(invalid, "ADMIN_IDS")
	}
	cfg.Admin = AdminConfig{
		IDs:        adminIDs,
		APIKeyHash: opt("ADMIN_API_KEY_HASH"),
	}

	cfg.Telegram = TelegramConfig{Token: opt("TELEGRAM_API_TOKEN")}

	cfg.Email = EmailConfig{
		Provider:  strings.ToLower(optDefault("EMAIL_PROVIDER", EmailProviderSMTP)),
		SMTPHost:  optDefault("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:  optInt("SMTP_PORT", 587),
		SMTPUser:  opt("SMTP_USER"),
		SMTPPass:  opt("SMTP_PASS"),
		From:      opt("EMAIL_FROM"),
		AWSRegion: opt("AWS_REGION"),
	}
	switch cfg.Email.Provider {
	case EmailProviderNone, EmailProviderSMTP, EmailProviderSES:
	default:
		invalid = append(invalid, "EMAIL_PROVIDER")
	}

	cfg.Matching = MatchingConfig{
		TimeZone:           optDefault("MATCH_TIMEZONE", "Europe/Amsterdam"),
		LookbackWeeks:      optInt("MATCH_LOOKBACK_WEEKS", 4),
		Cooldown:           optDuration("MATCH_COOLDOWN", time.Hour),
		NotifyDelay:        optDuration("NOTIFY_DELAY", 50*time.Millisecond),
		StarterPromptsFile: opt("STARTER_PROMPTS_FILE"),
	}
	loc, err := time.LoadLocation(cfg.Matching.TimeZone)
	if err != nil {
		invalid = append(invalid, "MATCH_TIMEZONE")
		loc = time.UTC
	}
	cfg.Matching.Location = loc
	if cfg.Matching.LookbackWeeks < 0 {
		invalid = append(invalid, "MATCH_LOOKBACK_WEEKS")
	}

	prompts, err := LoadStarterPrompts(cfg.Matching.StarterPromptsFile)
	if err != nil {
		return Config{}, err
	}
	cfg.Matching.StarterPrompts = prompts

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func (c AdminConfig) IsAdmin(id int64) bool {
	for _, it := range c.IDs {
		if it == id {
			return true
		}
	}
	return false
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(raw string) ([]int64, error) {
	out := make([]int64, 0)
	for _, p := range splitCSV(raw) {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse id %q: %w", p, err)
		}
		out = append(out, id)
	}
	return out, nil
}
