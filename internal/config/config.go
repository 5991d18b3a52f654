package config

import (
	"fmt"

	"github.com/tripdesk/service-booking/internal/platform/auth"
	"github.com/tripdesk/service-booking/internal/platform/config"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig

	MigrationsDir  string
	AllowedOrigins []string

	// AdminEmails is the agent allow-list, merged from BOOKING_ADMIN_EMAILS and
	// the optional YAML file at BOOKING_ADMIN_ALLOWLIST_FILE.
	AdminEmails         []string
	StrictTransitions   bool
	RequireSubscription bool

	TelegramToken string
	AgentChatID   int64
	CompanyName   string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "tripdesk_booking")
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STRICT_TRANSITIONS", false)
	v.SetDefault("REQUIRE_SUBSCRIPTION", false)
	v.SetDefault("COMPANY_NAME", "TripDesk")

	admins := config.SplitList(v.GetString("ADMIN_EMAILS"))
	if path := v.GetString("ADMIN_ALLOWLIST_FILE"); path != "" {
		fromFile, err := auth.LoadAllowListFile(path)
		if err != nil {
			return nil, err
		}
		admins = append(admins, fromFile...)
	}

	cfg := &ServiceConfig{
		Port:                config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:              config.GetAppEnv(v),
		DBConfig:            config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:           config.LoadJWTConfig(v),
		KafkaConfig:         config.LoadKafkaConfig(v),
		RedisConfig:         config.LoadRedisConfig(v),
		MigrationsDir:       v.GetString("MIGRATIONS_DIR"),
		AllowedOrigins:      config.SplitList(v.GetString("CORS_ORIGINS")),
		AdminEmails:         admins,
		StrictTransitions:   v.GetBool("STRICT_TRANSITIONS"),
		RequireSubscription: v.GetBool("REQUIRE_SUBSCRIPTION"),
		TelegramToken:       v.GetString("TELEGRAM_TOKEN"),
		AgentChatID:         v.GetInt64("TELEGRAM_AGENT_CHAT_ID"),
		CompanyName:         v.GetString("COMPANY_NAME"),
	}

	if cfg.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("BOOKING_JWT_SECRET is required")
	}
	return cfg, nil
}
