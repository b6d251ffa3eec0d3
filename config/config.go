// Package config loads the service configuration.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then environment variables prefixed with INVENTORY_. Nested keys use
// the first underscore after the prefix as the section separator, so
// INVENTORY_DATABASE_HOST maps to database.host and
// INVENTORY_AUTH_ACCESS_TOKEN_TTL maps to auth.access_token_ttl. List values
// such as INVENTORY_SERVER_CORS_ALLOWED_ORIGINS are comma separated.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v2"
)

const envPrefix = "INVENTORY_"

type Config struct {
	Env         string            `koanf:"env" yaml:"env" validate:"required,oneof=dev test prod"`
	Server      ServerConfig      `koanf:"server" yaml:"server" validate:"required"`
	Database    DatabaseConfig    `koanf:"database" yaml:"database"`
	Auth        AuthConfig        `koanf:"auth" yaml:"auth" validate:"required"`
	Log         LogConfig         `koanf:"log" yaml:"log"`
	Scheduler   SchedulerConfig   `koanf:"scheduler" yaml:"scheduler"`
	Mail        MailConfig        `koanf:"mail" yaml:"mail"`
	Storage     StorageConfig     `koanf:"storage" yaml:"storage"`
	Integration IntegrationConfig `koanf:"integration" yaml:"integration"`
}

type ServerConfig struct {
	Port               string        `koanf:"port" yaml:"port" validate:"required"`
	ReadTimeout        time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout       time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" yaml:"cors_allowed_origins" validate:"min=1,dive,required"`
}

// DatabaseConfig selects PostgreSQL when Name is set, SQLite otherwise.
// An empty SQLitePath means an in-memory database.
type DatabaseConfig struct {
	Host        string `koanf:"host" yaml:"host"`
	Port        string `koanf:"port" yaml:"port"`
	User        string `koanf:"user" yaml:"user"`
	Password    string `koanf:"password" yaml:"password"`
	Name        string `koanf:"name" yaml:"name"`
	SSLMode     string `koanf:"ssl_mode" yaml:"ssl_mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
	TimeZone    string `koanf:"time_zone" yaml:"time_zone"`
	SQLitePath  string `koanf:"sqlite_path" yaml:"sqlite_path"`
	AutoMigrate bool   `koanf:"auto_migrate" yaml:"auto_migrate"`
}

type AuthConfig struct {
	SecretKey      string        `koanf:"secret_key" yaml:"secret_key" validate:"required,min=16"`
	Issuer         string        `koanf:"issuer" yaml:"issuer"`
	AccessTokenTTL time.Duration `koanf:"access_token_ttl" yaml:"access_token_ttl" validate:"gt=0"`
	ResetTokenTTL  time.Duration `koanf:"reset_token_ttl" yaml:"reset_token_ttl" validate:"gt=0"`
}

type LogConfig struct {
	Level string `koanf:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
}

type SchedulerConfig struct {
	Enabled    bool   `koanf:"enabled" yaml:"enabled"`
	Spec       string `koanf:"spec" yaml:"spec"`
	Timezone   string `koanf:"timezone" yaml:"timezone"`
	NotifyDays int    `koanf:"notify_days" yaml:"notify_days" validate:"gte=0"`
	RunOnStart bool   `koanf:"run_on_start" yaml:"run_on_start"`
}

// MailConfig chooses the delivery transport. Provider "smtp" uses the SMTP
// fields, "ses" uses the AWS region, "log" only writes the message to the log.
type MailConfig struct {
	Provider         string `koanf:"provider" yaml:"provider" validate:"omitempty,oneof=smtp ses log"`
	FromName         string `koanf:"from_name" yaml:"from_name"`
	FromAddress      string `koanf:"from_address" yaml:"from_address"`
	SMTPHost         string `koanf:"smtp_host" yaml:"smtp_host"`
	SMTPPort         int    `koanf:"smtp_port" yaml:"smtp_port"`
	SMTPUsername     string `koanf:"smtp_username" yaml:"smtp_username"`
	SMTPPassword     string `koanf:"smtp_password" yaml:"smtp_password"`
	SESRegion        string `koanf:"ses_region" yaml:"ses_region"`
	FrontendResetURL string `koanf:"frontend_reset_url" yaml:"frontend_reset_url"`
}

// StorageConfig is optional; cover uploads are disabled without a bucket.
type StorageConfig struct {
	Bucket        string `koanf:"bucket" yaml:"bucket"`
	Region        string `koanf:"region" yaml:"region"`
	AccessKey     string `koanf:"access_key" yaml:"access_key"`
	SecretKey     string `koanf:"secret_key" yaml:"secret_key"`
	PublicBaseURL string `koanf:"public_base_url" yaml:"public_base_url"`
}

type IntegrationConfig struct {
	GoogleBooksAPIKey string        `koanf:"google_books_api_key" yaml:"google_books_api_key"`
	GoogleBooksURL    string        `koanf:"google_books_url" yaml:"google_books_url"`
	OpenBDURL         string        `koanf:"openbd_url" yaml:"openbd_url"`
	OpenAIAPIKey      string        `koanf:"openai_api_key" yaml:"openai_api_key"`
	OpenAIURL         string        `koanf:"openai_url" yaml:"openai_url"`
	OpenAIModel       string        `koanf:"openai_model" yaml:"openai_model"`
	RakutenAppID      string        `koanf:"rakuten_app_id" yaml:"rakuten_app_id"`
	RakutenRecipeURL  string        `koanf:"rakuten_recipe_url" yaml:"rakuten_recipe_url"`
	JANCodeAppID      string        `koanf:"jancode_app_id" yaml:"jancode_app_id"`
	JANCodeURL        string        `koanf:"jancode_url" yaml:"jancode_url"`
	HTTPTimeout       time.Duration `koanf:"http_timeout" yaml:"http_timeout" validate:"gt=0"`
}

func Default() *Config {
	return &Config{
		Env: "dev",
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			IdleTimeout:        60 * time.Second,
			CORSAllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Port:        "5432",
			SSLMode:     "disable",
			TimeZone:    "Asia/Tokyo",
			AutoMigrate: true,
		},
		Auth: AuthConfig{
			Issuer:         "gin-inventory",
			AccessTokenTTL: time.Hour,
			ResetTokenTTL:  time.Hour,
		},
		Log: LogConfig{Level: "info"},
		Scheduler: SchedulerConfig{
			Enabled:    true,
			Spec:       "0 0 * * *",
			Timezone:   "Asia/Tokyo",
			NotifyDays: 3,
		},
		Mail: MailConfig{
			Provider:         "log",
			FromName:         "Inventory",
			FromAddress:      "no-reply@example.com",
			SMTPPort:         587,
			FrontendResetURL: "http://localhost:5173/reset-password",
		},
		Integration: IntegrationConfig{
			GoogleBooksURL:   "https://www.googleapis.com/books/v1/volumes",
			OpenBDURL:        "https://api.openbd.jp/v1/get",
			OpenAIURL:        "https://api.openai.com/v1/chat/completions",
			OpenAIModel:      "gpt-3.5-turbo",
			RakutenRecipeURL: "https://app.rakuten.co.jp/services/api/Recipe/RecipeSearch/20170426",
			JANCodeURL:       "https://api.jancodelookup.com/",
			HTTPTimeout:      10 * time.Second,
		},
	}
}

// Load builds the configuration. yamlPath may be empty or point to a
// missing file, in which case only defaults and the environment are used.
func Load(yamlPath string) (*Config, error) {
	cfg := Default()

	if yamlPath != "" {
		raw, err := os.ReadFile(yamlPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	k := koanf.New(".")
	err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil)
	if err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listKeys are read from the environment as comma separated values.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

func envValue(name string, value string) (string, interface{}) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// Location returns the scheduler timezone, falling back to UTC+9 when the
// zone database is unavailable.
func (c SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}
