package dostavka

import (
	"fmt"
	"os"

	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/whitewenty/dostavka/dostavka/database"
)

// LoadConfig reads the TOML config file and then applies environment
// overrides, so deployments can keep secrets out of the file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if cfg.Web.Addr == "" {
		cfg.Web.Addr = ":5000"
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Web    WebConfig         `toml:"web"`
	Spaces SpacesConfig      `toml:"spaces"`
	Owner  OwnerConfig       `toml:"owner"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token" env:"BOT_TOKEN"`
}

// Configured reports whether a bot token is present. Absence is not an
// error: the dashboard still serves, the bot loop just does not start.
func (c BotConfig) Configured() bool {
	return c.Token != ""
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type WebConfig struct {
	Addr          string `toml:"addr" env:"WEB_ADDR"`
	SessionSecret string `toml:"session_secret" env:"SESSION_SECRET"`
}

type SpacesConfig struct {
	Key    string `toml:"key" env:"SPACES_KEY"`
	Secret string `toml:"secret" env:"SPACES_SECRET"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

// OwnerConfig identifies the default admin seeded at startup.
type OwnerConfig struct {
	ID   string `toml:"id" env:"OWNER_ID"`
	Name string `toml:"name"`
}
