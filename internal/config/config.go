package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Record store variables. Without both the API refuses to serve forms.
const (
	EnvRecordStoreURL = "RECORD_STORE_URL"
	EnvRecordStoreKey = "RECORD_STORE_KEY"
)

var r2Keys = []string{
	"R2_ENDPOINT",
	"R2_ACCESS_KEY",
	"R2_SECRET_KEY",
	"R2_BUCKET_NAME",
	"R2_PUBLIC_BASE_URL",
}

type R2 struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type Config struct {
	RecordStoreURL     string
	RecordStoreKey     string
	RecordStoreTimeout time.Duration

	Port        string
	Location    *time.Location
	CORSOrigins []string
	HREmail     string

	SuccessResetDelay time.Duration
	SessionIdleTTL    time.Duration
	ExportHour        int

	// R2 is nil when the export archive is not configured.
	R2 *R2

	missing []string
}

// LoadDotEnv reads .env outside production. A missing file is not an error.
func LoadDotEnv() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
}

// Load reads the configuration from the environment. Missing record store
// values are reported by Missing, not as an error; malformed optional
// values are errors.
func Load() (*Config, error) {
	cfg := &Config{
		RecordStoreURL: os.Getenv(EnvRecordStoreURL),
		RecordStoreKey: os.Getenv(EnvRecordStoreKey),
		Port:           getenv("PORT", "8000"),
		HREmail:        getenv("HR_EMAIL", "hr@logile.com"),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	if cfg.RecordStoreURL == "" {
		cfg.missing = append(cfg.missing, EnvRecordStoreURL)
	}
	if cfg.RecordStoreKey == "" {
		cfg.missing = append(cfg.missing, EnvRecordStoreKey)
	}

	var err error
	tz := getenv("APP_TIMEZONE", "Asia/Kolkata")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE %q: %w", tz, err)
	}

	if cfg.SuccessResetDelay, err = duration("SUCCESS_RESET_DELAY", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = duration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RecordStoreTimeout, err = duration("RECORD_STORE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.ExportHour, err = strconv.Atoi(getenv("EXPORT_HOUR", "1"))
	if err != nil || cfg.ExportHour < 0 || cfg.ExportHour > 23 {
		return nil, fmt.Errorf("EXPORT_HOUR must be an hour between 0 and 23")
	}

	if cfg.R2, err = loadR2(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Missing lists the required variables that are not set.
func (c *Config) Missing() []string {
	return append([]string(nil), c.missing...)
}

func (c *Config) Complete() bool {
	return len(c.missing) == 0
}

// loadR2 accepts all five R2 variables or none of them.
func loadR2() (*R2, error) {
	var set, unset []string
	for _, k := range r2Keys {
		if os.Getenv(k) == "" {
			unset = append(unset, k)
		} else {
			set = append(set, k)
		}
	}

	if len(set) == 0 {
		return nil, nil
	}
	if len(unset) > 0 {
		return nil, fmt.Errorf("incomplete R2 configuration, missing %s", strings.Join(unset, ", "))
	}

	return &R2{
		Endpoint:      os.Getenv("R2_ENDPOINT"),
		AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		SecretKey:     os.Getenv("R2_SECRET_KEY"),
		Bucket:        os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL: strings.TrimRight(os.Getenv("R2_PUBLIC_BASE_URL"), "/"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
