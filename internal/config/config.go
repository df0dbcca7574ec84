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

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telegram  TelegramConfig
	Sheets    SheetsConfig
	Matching  MatchingConfig
	Notify    NotifyConfig
	Scheduler SchedulerConfig
	WebApp    WebAppConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	Debug       bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// TelegramConfig carries the outbound messaging credentials. An empty
// BotToken disables sends entirely; an unset AdminChatID disables only
// the admin summary channel.
type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

type SheetsConfig struct {
	APIKey           string
	VacanciesSheetID string
	SurveySheetID    string
}

type MatchingConfig struct {
	// MinOverlap is the minimum number of shared tags between a user and a
	// vacancy for the vacancy to count as relevant.
	MinOverlap int
	// TopN caps how many vacancies one matching pass may return.
	TopN int
}

type NotifyConfig struct {
	SendDelay time.Duration
	UserDelay time.Duration
}

type SchedulerConfig struct {
	VacancySyncSpec string
	NotifySpec      string
	SurveySyncSpec  string
	LeaseTTL        time.Duration
}

type WebAppConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	_ = godotenv.Load()

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
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("%s=%q (want integer)", key, v))
			return def
		}
		return n
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("%s=%q (want duration)", key, v))
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "hirepulse"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     opt("LOG_FORMAT", "console") == "json",
		Debug:       opt("LOG_LEVEL", "info") == "debug",
	}

	cfg.Database = DatabaseConfig{
		DBHost:         req("DB_HOST"),
		DBPort:         req("DB_PORT"),
		DBName:         req("DB_NAME"),
		DBUser:         req("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	var adminChat int64
	if v := strings.TrimSpace(os.Getenv("ADMIN_CHAT_ID")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("ADMIN_CHAT_ID=%q (want integer)", v))
		} else {
			adminChat = n
		}
	}
	cfg.Telegram = TelegramConfig{
		BotToken:    strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		AdminChatID: adminChat,
	}

	cfg.Sheets = SheetsConfig{
		APIKey:           strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_API_KEY")),
		VacanciesSheetID: strings.TrimSpace(os.Getenv("GOOGLE_VACANCIES_SHEET_ID")),
		SurveySheetID:    strings.TrimSpace(os.Getenv("GOOGLE_SURVEY_SHEET_ID")),
	}

	cfg.Matching = MatchingConfig{
		MinOverlap: optInt("MATCH_MIN_OVERLAP", 2),
		TopN:       optInt("MATCH_TOP_N", 5),
	}
	if cfg.Matching.MinOverlap < 1 {
		invalid = append(invalid, fmt.Sprintf("MATCH_MIN_OVERLAP=%d (want >= 1)", cfg.Matching.MinOverlap))
	}
	if cfg.Matching.TopN < 1 {
		invalid = append(invalid, fmt.Sprintf("MATCH_TOP_N=%d (want >= 1)", cfg.Matching.TopN))
	}

	cfg.Notify = NotifyConfig{
		SendDelay: optDuration("NOTIFY_SEND_DELAY", 300*time.Millisecond),
		UserDelay: optDuration("NOTIFY_USER_DELAY", 200*time.Millisecond),
	}

	cfg.Scheduler = SchedulerConfig{
		VacancySyncSpec: opt("SYNC_CRON", "*/30 * * * *"),
		NotifySpec:      opt("NOTIFY_CRON", "0 */2 * * *"),
		SurveySyncSpec:  opt("SURVEY_SYNC_CRON", "0 * * * *"),
		LeaseTTL:        optDuration("JOB_LEASE_TTL", 10*time.Minute),
	}

	cfg.WebApp = WebAppConfig{
		JWTSecret: req("WEBAPP_JWT_SECRET"),
		TokenTTL:  optDuration("WEBAPP_TOKEN_TTL", 30*time.Minute),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}

	return cfg, nil
}
