// Package appconfig handles command-line configuration using Viper.
package appconfig

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	EnvPrefix        = "GOTSPARAMS"
	DefaultStorePath = "./gotsparams.db"
	DefaultLogLevel  = "info"
)

// Settings holds the runtime configuration of the command-line tool.
type Settings struct {
	TablesDir string `mapstructure:"tables_dir"` // extra YAML tables; empty = none
	StorePath string `mapstructure:"store_path"`
	LogLevel  string `mapstructure:"log_level"`
	Builtin   bool   `mapstructure:"builtin"` // register the compiled-in tables
}

// Load reads settings from the optional config file at path, then from
// GOTSPARAMS_* environment variables, which take precedence.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("tables_dir", "")
	v.SetDefault("store_path", DefaultStorePath)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("builtin", true)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return s, nil
}
