package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the process needs. It is assembled once in Load
// and handed to collaborators; nothing else reads the environment.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Directus DirectusConfig `yaml:"directus"`
	Admin    AdminConfig    `yaml:"admin"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
	Jobs     JobsConfig     `yaml:"jobs"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	SiteURL        string   `yaml:"site_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DirectusConfig struct {
	URL                 string        `yaml:"url"`
	ReadToken           string        `yaml:"read_token"`
	Timeout             time.Duration `yaml:"timeout"`
	ProductsSortField   string        `yaml:"products_sort_field"`
	CategoriesSortField string        `yaml:"categories_sort_field"`
	CacheTTL            time.Duration `yaml:"cache_ttl"`
}

type AdminConfig struct {
	Secret        string        `yaml:"secret"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// SigningKey returns the key used for admin session tokens. Falls back to
// the admin secret when no dedicated session secret is configured.
func (a AdminConfig) SigningKey() string {
	if a.SessionSecret != "" {
		return a.SessionSecret
	}
	return a.Secret
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Mode     string `yaml:"mode"`
	Filename string `yaml:"filename"`
}

// FileEnable reports whether logs should also go to a rotated file.
func (l LoggerConfig) FileEnable() bool {
	return l.Filename != ""
}

type JobsConfig struct {
	// RefreshSchedule is a cron spec for the catalog cache refresh. Empty disables it.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// WhatsAppLine is one sales line shown in the floating contact button.
type WhatsAppLine struct {
	Number string `yaml:"number"`
	Label  string `yaml:"label"`
}

type WhatsAppConfig struct {
	// Number is the legacy single contact number; it takes precedence for
	// general and product links when set.
	Number string         `yaml:"number"`
	Lines  []WhatsAppLine `yaml:"lines"`
}

// Default returns a Config with every optional value filled in.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    "8080",
			SiteURL: "http://localhost:8080",
		},
		Directus: DirectusConfig{
			Timeout:             10 * time.Second,
			ProductsSortField:   "sort_order",
			CategoriesSortField: "sort_order",
			CacheTTL:            60 * time.Second,
		},
		Admin: AdminConfig{
			SessionTTL: 8 * time.Hour,
		},
		Logger: LoggerConfig{
			Mode: "development",
		},
		Jobs: JobsConfig{
			RefreshSchedule: "@every 5m",
		},
	}
}

// LoadEnv loads a .env file when present. A missing file is not an error,
// variables can be set by other means.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in that order of precedence (lowest first).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	if c.Directus.URL == "" {
		return fmt.Errorf("DIRECTUS_URL is not set")
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.SiteURL, "SITE_URL")
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	setString(&c.Directus.URL, "DIRECTUS_URL")
	setString(&c.Directus.ReadToken, "DIRECTUS_READ_TOKEN")
	setString(&c.Directus.ProductsSortField, "PRODUCTS_SORT_FIELD")
	setString(&c.Directus.CategoriesSortField, "CATEGORIES_SORT_FIELD")
	if err := setDuration(&c.Directus.Timeout, "DIRECTUS_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&c.Directus.CacheTTL, "CATALOG_CACHE_TTL"); err != nil {
		return err
	}

	setString(&c.Admin.Secret, "ADMIN_SECRET")
	setString(&c.Admin.SessionSecret, "ADMIN_SESSION_SECRET")
	if err := setDuration(&c.Admin.SessionTTL, "ADMIN_SESSION_TTL"); err != nil {
		return err
	}

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASS")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}

	setString(&c.Logger.Mode, "LOG_MODE")
	setString(&c.Logger.Filename, "LOG_FILE")

	if v, ok := os.LookupEnv("CATALOG_REFRESH_SCHEDULE"); ok {
		c.Jobs.RefreshSchedule = strings.TrimSpace(v)
	}

	setString(&c.WhatsApp.Number, "WHATSAPP_NUMBER")
	c.applyWhatsAppEnv()
	return nil
}

var defaultLineLabels = [3]string{"Línea 1", "Línea 2", "Línea 3"}

// applyWhatsAppEnv reads WHATSAPP_NUMBER_1..3 and their labels. The first
// line falls back to the legacy WHATSAPP_NUMBER.
func (c *Config) applyWhatsAppEnv() {
	var lines []WhatsAppLine
	found := false
	for i := 1; i <= 3; i++ {
		number := os.Getenv(fmt.Sprintf("WHATSAPP_NUMBER_%d", i))
		if i == 1 && DigitsOnly(number) == "" {
			number = os.Getenv("WHATSAPP_NUMBER")
		}
		if number != "" {
			found = true
		}
		label := os.Getenv(fmt.Sprintf("WHATSAPP_LABEL_%d", i))
		if label == "" {
			label = defaultLineLabels[i-1]
		}
		lines = append(lines, WhatsAppLine{Number: number, Label: label})
	}
	if found {
		c.WhatsApp.Lines = lines
	}
}

func (c *Config) normalize() {
	c.Directus.URL = strings.TrimRight(strings.TrimSpace(c.Directus.URL), "/")
	c.Server.SiteURL = strings.TrimRight(c.Server.SiteURL, "/")
	c.WhatsApp.Number = DigitsOnly(c.WhatsApp.Number)

	lines := make([]WhatsAppLine, 0, len(c.WhatsApp.Lines))
	for _, l := range c.WhatsApp.Lines {
		l.Number = DigitsOnly(l.Number)
		if l.Number == "" {
			continue
		}
		lines = append(lines, l)
	}
	c.WhatsApp.Lines = lines
}

var nonDigits = regexp.MustCompile(`\D`)

// DigitsOnly strips everything but digits from a phone number.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// plain numbers are seconds
		secs, convErr := strconv.Atoi(v)
		if convErr != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		d = time.Duration(secs) * time.Second
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
