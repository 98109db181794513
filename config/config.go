// Package config loads the application settings.
//
// Settings come, by increasing priority, from defaults, an optional YAML
// file, a .env file in the working directory and VENDAS_ environment
// variables (VENDAS_SERVER_ADDR for server.addr).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	DataFile string       `mapstructure:"data_file"`
	Server   ServerConfig `mapstructure:"server"`
	Backup   BackupConfig `mapstructure:"backup"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"` // "debug" or "release"
}

// BackupConfig holds the backup schedule.
type BackupConfig struct {
	Dir      string `mapstructure:"dir"`
	Schedule string `mapstructure:"schedule"` // cron spec, empty disables scheduled backups
	Keep     int    `mapstructure:"keep"`
}

// Default values.
const (
	DefaultDataFile = "dados_vendas.json"
	DefaultAddr     = ":5000"
	DefaultMode     = "release"
	DefaultBackup   = "backups"
	DefaultKeep     = 10
)

// Load reads the configuration. file is an optional YAML file, it must exist
// when given.
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read .env file: %w", err)
	}

	v := viper.New()
	v.SetDefault("data_file", DefaultDataFile)
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.mode", DefaultMode)
	v.SetDefault("backup.dir", DefaultBackup)
	v.SetDefault("backup.schedule", "")
	v.SetDefault("backup.keep", DefaultKeep)

	v.SetEnvPrefix("VENDAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file %q: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Backup.Keep < 1 {
		return nil, fmt.Errorf("invalid configuration: backup.keep must be at least 1, got %d", c.Backup.Keep)
	}
	return &c, nil
}
