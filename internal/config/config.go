package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string
	DBSSLMode   string

	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryURL          string
	CloudinaryUploadFolder string

	LogLevel  string
	LogFormat string

	AdminEmail           string
	AdminPassword        string
	AdminName            string
	AdminRequirePassword bool

	BcryptCost int

	RateLimitRegister time.Duration
	RateLimitApply    time.Duration
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// PrettyLogs reports whether logs should use the console writer.
func (c *Config) PrettyLogs() bool {
	switch strings.ToLower(c.LogFormat) {
	case "json":
		return false
	case "console", "pretty":
		return true
	}
	return !c.IsProduction()
}

var defaults = map[string]string{
	"APP_ENV":                  "development",
	"PORT":                     "8080",
	"ALLOWED_ORIGINS":          "http://localhost:3000",
	"DB_SSLMODE":               "disable",
	"MEILISEARCH_HOST":         "",
	"CLOUDINARY_UPLOAD_FOLDER": "jobboard_resumes",
	"LOG_LEVEL":                "info",
	"ADMIN_EMAIL":              "admin@example.com",
	"ADMIN_PASSWORD":           "adminpass",
	"ADMIN_NAME":               "Administrator",
	"ADMIN_REQUIRE_PASSWORD":   "false",
	"BCRYPT_COST":              "10",
	"RATE_LIMIT_REGISTER":      "0s",
	"RATE_LIMIT_APPLY":         "0s",
}

// Load builds the configuration from defaults, an optional .env file, an optional YAML
// file named by CONFIG_PATH and finally the process environment, which wins.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	file, err := readFile(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return nil, err
	}

	get := func(key string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		if value, exists := file[strings.ToLower(key)]; exists {
			return value
		}
		return defaults[key]
	}

	cfg := &Config{
		AppEnv:         get("APP_ENV"),
		Port:           get("PORT"),
		AllowedOrigins: splitList(get("ALLOWED_ORIGINS")),

		DatabaseURL: get("DATABASE_URL"),
		DBHost:      get("DB_HOST"),
		DBUser:      get("DB_USER"),
		DBPass:      get("DB_PASS"),
		DBName:      get("DB_NAME"),
		DBPort:      get("DB_PORT"),
		DBSSLMode:   get("DB_SSLMODE"),

		RedisURL: get("REDIS_URL"),

		MeiliSearchHost: normalizeMeiliHost(get("MEILISEARCH_HOST")),
		MeiliMasterKey:  get("MEILI_MASTER_KEY"),

		CloudinaryURL:          get("CLOUDINARY_URL"),
		CloudinaryUploadFolder: get("CLOUDINARY_UPLOAD_FOLDER"),

		LogLevel:  get("LOG_LEVEL"),
		LogFormat: get("LOG_FORMAT"),

		AdminEmail:    get("ADMIN_EMAIL"),
		AdminPassword: get("ADMIN_PASSWORD"),
		AdminName:     get("ADMIN_NAME"),
	}

	cfg.AdminRequirePassword, err = strconv.ParseBool(get("ADMIN_REQUIRE_PASSWORD"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_REQUIRE_PASSWORD: %w", err)
	}

	cfg.BcryptCost, err = strconv.Atoi(get("BCRYPT_COST"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.RateLimitRegister, err = time.ParseDuration(get("RATE_LIMIT_REGISTER"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REGISTER: %w", err)
	}
	cfg.RateLimitApply, err = time.ParseDuration(get("RATE_LIMIT_APPLY"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_APPLY: %w", err)
	}

	return cfg, nil
}

// readFile loads a flat YAML mapping whose keys are the lower-cased variable names,
// e.g. `rate_limit_apply: 30s`.
func readFile(path string) (map[string]string, error) {
	values := map[string]string{}
	if path == "" {
		return values, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	for key, value := range raw {
		if value == nil {
			continue
		}
		values[strings.ToLower(key)] = fmt.Sprint(value)
	}
	return values, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeMeiliHost(host string) string {
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
