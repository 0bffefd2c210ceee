package store

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	defaultPath     = "~/.pokedex"
	defaultAPI      = "https://pokeapi.co/api/v2"
	defaultPageSize = 20
	defaultTimeout  = 15 * time.Second
)

// Config is the resolved runtime configuration.
type Config interface {
	BasePath() string
	APIBaseURL() string
	PageSize() int
	Timeout() time.Duration
	LogLevel() string
}

// LoadConfig reads .pokedex.yaml from $POKEDEX_CONFIG_PATH or the working
// directory, overlaid with POKEDEX_* environment variables.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("api", defaultAPI)
	v.SetDefault("page_size", defaultPageSize)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("log_level", "info")
	v.SetConfigName(".pokedex") // .yaml is implicit
	v.SetEnvPrefix("POKEDEX")
	v.AutomaticEnv()

	if override := os.Getenv("POKEDEX_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("expand path: %w", err)
	}
	cfg := &fileConfig{
		Path:  path,
		API:   v.GetString("api"),
		Size:  v.GetInt("page_size"),
		Wait:  v.GetDuration("timeout"),
		Level: v.GetString("log_level"),
	}
	if cfg.Size <= 0 {
		cfg.Size = defaultPageSize
	}
	if cfg.Wait <= 0 {
		cfg.Wait = defaultTimeout
	}
	return cfg, nil
}

// StaticConfig returns a Config rooted at path with default settings.
func StaticConfig(path string) Config {
	return &fileConfig{Path: path, API: defaultAPI, Size: defaultPageSize, Wait: defaultTimeout, Level: "info"}
}

type fileConfig struct {
	Path  string        `json:"path"`
	API   string        `json:"api"`
	Size  int           `json:"page_size"`
	Wait  time.Duration `json:"timeout"`
	Level string        `json:"log_level"`
}

func (f *fileConfig) BasePath() string { return f.Path }
func (f *fileConfig) APIBaseURL() string { return f.API }
func (f *fileConfig) PageSize() int { return f.Size }
func (f *fileConfig) Timeout() time.Duration { return f.Wait }
func (f *fileConfig) LogLevel() string { return f.Level }
