// Package config loads client configuration the same way everywhere: a
// .loadplan file next to the caller, overridable through the environment.
package config

import (
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config carries everything the CLI surfaces need.
type Config struct {
	// Server is the base URL of the scheduling API.
	Server string
	// PageSize is the default page size for listings and the grid.
	PageSize int
	// DraftPath is where unsaved blank-row drafts are kept between runs.
	DraftPath string
}

// Load reads configuration from .loadplan (yaml implicit) and LOADPLAN_*
// environment variables. A missing config file is fine; defaults apply.
func Load() (*Config, error) {
	viper.SetDefault("server", "http://localhost:8080")
	viper.SetDefault("page-size", 50)
	viper.SetDefault("draft-path", "~/.loadplan.db")
	viper.SetConfigName(".loadplan")
	viper.SetEnvPrefix("LOADPLAN")
	viper.AutomaticEnv()
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read .loadplan: %w", err)
		}
	}

	draftPath, err := homedir.Expand(viper.GetString("draft-path"))
	if err != nil {
		return nil, fmt.Errorf("config: expand draft path: %w", err)
	}

	cfg := &Config{
		Server:    viper.GetString("server"),
		PageSize:  viper.GetInt("page-size"),
		DraftPath: draftPath,
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 50
	}
	return cfg, nil
}
