package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type TTSConfig struct {
	Model  string `yaml:"model"`
	Voice  string `yaml:"voice"`
	APIKey string `yaml:"api_key"`
}

type PodcastConfig struct {
	MaxStories int `yaml:"max_stories"`
}

type MailConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	Username   string   `yaml:"username"`
	From       string   `yaml:"from"`
	Password   string   `yaml:"password"`
	Recipients []string `yaml:"recipients"`
}

type DiscordConfig struct {
	WebhookURL    string `yaml:"webhook_url"`
	MentionUserID string `yaml:"mention_user_id"`
}

type DriveConfig struct {
	Enabled         bool   `yaml:"enabled"`
	FolderID        string `yaml:"folder_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

type Config struct {
	Feeds    []string      `yaml:"feeds"`
	AI       AIConfig      `yaml:"ai"`
	TTS      TTSConfig     `yaml:"tts"`
	Podcast  PodcastConfig `yaml:"podcast"`
	Schedule string        `yaml:"schedule"`
	Timezone string        `yaml:"timezone"`
	Mail     MailConfig    `yaml:"mail"`
	Discord  DiscordConfig `yaml:"discord"`
	Drive    DriveConfig   `yaml:"drive"`
}

// AIKey returns the text-oracle API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("DAILYNEWS_AI_KEY")
}

// TTSKey returns the speech-oracle API key, falling back to the AI key
// when both run against OpenAI.
func (c *Config) TTSKey() string {
	if c.TTS.APIKey != "" {
		return c.TTS.APIKey
	}
	if key := os.Getenv("DAILYNEWS_TTS_KEY"); key != "" {
		return key
	}
	if c.AI.Provider == "openai" {
		return c.AIKey()
	}
	return ""
}

func (c *Config) SMTPPassword() string {
	if c.Mail.Password != "" {
		return c.Mail.Password
	}
	return os.Getenv("DAILYNEWS_SMTP_PASSWORD")
}

func (c *Config) DiscordWebhook() string {
	if c.Discord.WebhookURL != "" {
		return c.Discord.WebhookURL
	}
	return os.Getenv("DAILYNEWS_DISCORD_WEBHOOK")
}

// MaxStories returns the top-N target, defaulting to 12.
func (c *Config) MaxStories() int {
	if c.Podcast.MaxStories <= 0 {
		return 12
	}
	return c.Podcast.MaxStories
}

func (c *Config) ScheduleSpec() string {
	if c.Schedule == "" {
		return "0 7 * * *"
	}
	return c.Schedule
}

func (c *Config) TimezoneName() string {
	if c.Timezone == "" {
		return "Europe/Budapest"
	}
	return c.Timezone
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "daily-ai-news", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string, log *zap.SugaredLogger) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := validate(defaults); err != nil {
				return nil, fmt.Errorf("embedded defaults: %w", err)
			}
			// Write defaults to the config path on first run. Non-fatal:
			// the embedded defaults are usable either way.
			if err := writeDefaults(path); err != nil {
				log.Warnw("writing default config failed", "path", path, "error", err)
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for i, f := range cfg.Feeds {
		u, err := url.Parse(f)
		if err != nil {
			return fmt.Errorf("feed %d: invalid url: %w", i, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %d: url scheme must be http or https, got %q", i, u.Scheme)
		}
	}
	if cfg.AI.Provider != "" && cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
		return fmt.Errorf("ai provider must be claude or openai, got %q", cfg.AI.Provider)
	}
	if cfg.Mail.Port < 0 || cfg.Mail.Port > 65535 {
		return fmt.Errorf("mail port out of range: %d", cfg.Mail.Port)
	}
	return nil
}
