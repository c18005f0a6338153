package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the authority CLI.
type Config struct {
	ServerEndpointAddr string        `env:"AUTHORITY_CLI_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"AUTHORITY_CLI_REQUEST_TIMEOUT"`
	LocalDB            string        `env:"AUTHORITY_CLI_LOCAL_DB"`
}

func defaultLocalDB() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".authority.db"
	}
	return filepath.Join(home, ".authority.db")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.LocalDB = defaultLocalDB()
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
