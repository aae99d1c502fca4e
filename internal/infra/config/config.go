package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultSecretKey is a placeholder so the service can boot in development.
// Any real deployment must override SECRET_KEY.
const defaultSecretKey = "Secret_Key-2024"

type Config struct {
	SecretKey       string
	Algorithm       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DatabaseURL string
	HTTPAddress string
	LogLevel    string

	AllowedOrigins   []string
	AllowCredentials bool
	PasswordPepper   string
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for _, key := range []string{
		"SECRET_KEY", "ALGORITHM",
		"ACCESS_TOKEN_EXPIRE_MINUTES", "REFRESH_TOKEN_EXPIRE_DAYS",
		"DATABASE_URL", "HTTP_ADDRESS", "LOG_LEVEL",
		"ALLOWED_ORIGINS", "ALLOW_CREDENTIALS", "PASSWORD_PEPPER",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	v.SetDefault("SECRET_KEY", defaultSecretKey)
	v.SetDefault("ALGORITHM", "HS256")
	v.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	v.SetDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7)
	v.SetDefault("HTTP_ADDRESS", ":8181")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	accessMinutes := v.GetInt("ACCESS_TOKEN_EXPIRE_MINUTES")
	refreshDays := v.GetInt("REFRESH_TOKEN_EXPIRE_DAYS")
	if accessMinutes <= 0 || refreshDays <= 0 {
		return nil, fmt.Errorf("token expirations must be positive, got %dm/%dd", accessMinutes, refreshDays)
	}

	return &Config{
		SecretKey:        v.GetString("SECRET_KEY"),
		Algorithm:        v.GetString("ALGORITHM"),
		AccessTokenTTL:   time.Duration(accessMinutes) * time.Minute,
		RefreshTokenTTL:  time.Duration(refreshDays) * 24 * time.Hour,
		DatabaseURL:      dbURL,
		HTTPAddress:      v.GetString("HTTP_ADDRESS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		AllowedOrigins:   splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		AllowCredentials: v.GetBool("ALLOW_CREDENTIALS"),
		PasswordPepper:   v.GetString("PASSWORD_PEPPER"),
	}, nil
}

// splitOrigins parses ALLOWED_ORIGINS as a comma- or space-separated list,
// e.g. "https://a.example.com,https://b.example.com".
func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
