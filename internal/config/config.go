package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration shared by the daemon and the
// terminal client. Values come from defaults, then an optional YAML file,
// then TASKFLOW_* environment overrides, in that order.
type Config struct {
	DBPath               string         `yaml:"db_path"`
	ListenAddr           string         `yaml:"listen_addr"`
	ScanIntervalSeconds  int            `yaml:"scan_interval_seconds"`
	DesktopNotifications bool           `yaml:"desktop_notifications"`
	EventBuffer          int            `yaml:"event_buffer"`
	Telegram             TelegramConfig `yaml:"telegram"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

func Default() Config {
	return Config{
		DBPath:               defaultDBPath(),
		ListenAddr:           "127.0.0.1:8321",
		ScanIntervalSeconds:  60,
		DesktopNotifications: false,
		EventBuffer:          64,
	}
}

func (c Config) ScanInterval() time.Duration {
	if c.ScanIntervalSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.ScanIntervalSeconds) * time.Second
}

// Load resolves the effective configuration. A missing file is fine; a
// malformed one is an error the caller should surface.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		loaded, err := loadFile(cfg, path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	return FromEnv(cfg), nil
}

// DefaultPath is the conventional config file location; callers pass it to
// Load unless the user pointed somewhere else.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/taskflow/config.yaml"
}

func loadFile(base Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TASKFLOW_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKFLOW_LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := getEnvInt("TASKFLOW_SCAN_INTERVAL_SECONDS"); ok && v > 0 {
		cfg.ScanIntervalSeconds = v
	}
	if v, ok := getEnvBool("TASKFLOW_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TASKFLOW_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKFLOW_TELEGRAM_BOT_TOKEN")); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKFLOW_TELEGRAM_CHAT_ID")); v != "" {
		cfg.Telegram.ChatID = v
	}
	return cfg
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskflow.db"
	}
	return home + "/.local/share/taskflow/taskflow.db"
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
