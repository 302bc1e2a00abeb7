package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"focustrack/internal/submit"
)

// Config is the merged tracker and collector configuration, read from
// ~/.focustrack/config.yaml with FOCUSTRACK_* environment overrides.
type Config struct {
	Endpoint          string
	ExperimentVersion string
	ClientInfo        string
	Locale            string
	DataDir           string

	CollectorAddr string
	CollectorDB   string
}

func defaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := filepath.Join(home, ".focustrack")

	return &Config{
		Endpoint:          submit.PlaceholderEndpoint,
		ExperimentVersion: "1.0",
		ClientInfo:        fmt.Sprintf("focustrack/%s-%s", runtime.GOOS, runtime.GOARCH),
		Locale:            "en",
		DataDir:           dataDir,
		CollectorAddr:     ":8710",
		CollectorDB:       filepath.Join(dataDir, "collector.db"),
	}
}

// Load reads config.yaml from the data directory. A missing file returns
// defaults; environment variables override either way.
func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(cfg.DataDir)
	v.SetEnvPrefix("focustrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("endpoint", cfg.Endpoint)
	v.SetDefault("experiment_version", cfg.ExperimentVersion)
	v.SetDefault("client_info", cfg.ClientInfo)
	v.SetDefault("locale", cfg.Locale)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("collector.addr", cfg.CollectorAddr)
	v.SetDefault("collector.db", cfg.CollectorDB)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	cfg.Endpoint = v.GetString("endpoint")
	cfg.ExperimentVersion = v.GetString("experiment_version")
	cfg.ClientInfo = v.GetString("client_info")
	cfg.Locale = v.GetString("locale")
	cfg.DataDir = v.GetString("data_dir")
	cfg.CollectorAddr = v.GetString("collector.addr")
	cfg.CollectorDB = v.GetString("collector.db")

	return cfg, nil
}
