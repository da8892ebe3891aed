package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"pokerroom-server/internal/util"
)

// Config provides configuration for the poker room server
type Config struct {
	loaded bool

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}

	// StartGameDelay is the number of seconds an auto-start room waits
	// between hands
	StartGameDelay int `yaml:"startGameDelay" envconfig:"start_game_delay"`

	// TurnTimeout is the number of seconds a seat may sit on the clock
	// before the hand acts for it. Zero disables the deadline.
	TurnTimeout int `yaml:"turnTimeout" envconfig:"turn_timeout"`
}

// StartGameDelayDuration returns the start delay as a duration
func (c Config) StartGameDelayDuration() time.Duration {
	return time.Duration(c.StartGameDelay) * time.Second
}

// TurnTimeoutDuration returns the turn deadline as a duration
func (c Config) TurnTimeoutDuration() time.Duration {
	return time.Duration(c.TurnTimeout) * time.Second
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// defaults and environment still apply.
func Load() error {
	config = Config{}
	config.Log.Level = "info"
	config.StartGameDelay = 10
	config.TurnTimeout = 45

	configFile := util.Getenv("PRS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("prs", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
