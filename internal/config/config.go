package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	defaultFeedURL     = "https://api.hnpwa.com/v0/news/1.json"
	defaultItemURL     = "https://api.hnpwa.com/v0/item/@id.json"
	defaultDBPath      = ":memory:"
	defaultMount       = "root"
	defaultHTTPTimeout = 10 * time.Second
	defaultLogLevel    = "info"

	itemPlaceholder = "@id"
)

// Config holds runtime settings for the CLI app.
type Config struct {
	FeedURL     string
	ItemURL     string
	DBPath      string
	Mount       string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFile     string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		FeedURL:  os.Getenv("HN_FEED_URL"),
		ItemURL:  os.Getenv("HN_ITEM_URL"),
		DBPath:   os.Getenv("HN_DB_PATH"),
		Mount:    os.Getenv("HN_MOUNT"),
		LogLevel: strings.ToLower(strings.TrimSpace(os.Getenv("HN_LOG_LEVEL"))),
		LogFile:  os.Getenv("HN_LOG_FILE"),
	}

	if cfg.FeedURL == "" {
		cfg.FeedURL = defaultFeedURL
	}
	if cfg.ItemURL == "" {
		cfg.ItemURL = defaultItemURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Mount == "" {
		cfg.Mount = defaultMount
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	cfg.HTTPTimeout = defaultHTTPTimeout
	if raw := strings.TrimSpace(os.Getenv("HN_HTTP_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("HN_HTTP_TIMEOUT must be a duration: %w", err)
		}
		cfg.HTTPTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validateHTTPURL("FeedURL", c.FeedURL); err != nil {
		return err
	}
	if err := validateHTTPURL("ItemURL", c.ItemURL); err != nil {
		return err
	}
	if !strings.Contains(c.ItemURL, itemPlaceholder) {
		return fmt.Errorf("ItemURL must contain %s: %s", itemPlaceholder, c.ItemURL)
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.Mount == "" {
		return errors.New("Mount is required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTPTimeout must not be negative: %s", c.HTTPTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level; invalid values fall back to info.
func (c Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LogLevel must be debug, info, warn or error: %s", name)
	}
}

func validateHTTPURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https: %s", field, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host: %s", field, raw)
	}
	return nil
}
