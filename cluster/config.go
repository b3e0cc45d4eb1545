package cluster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/go-sif/distiter/logging"
)

// EnvPrefix prefixes every environment variable read by LoadNodeOptions,
// e.g. DISTITER_COORDINATOR_HOST
const EnvPrefix = "DISTITER"

type loaderConfig struct {
	configFile string
	envFile    string
}

// LoaderOption customizes LoadNodeOptions
type LoaderOption func(*loaderConfig)

// WithConfigFile reads NodeOptions from a YAML (or any viper-supported) file
func WithConfigFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.configFile = path }
}

// WithEnvFile loads environment variables from a .env file before reading them.
// Without it, ./.env is loaded if present.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

var nodeOptionKeys = map[string]interface{}{
	"port":                DefaultPort,
	"host":                "0.0.0.0",
	"coordinator_port":    DefaultPort,
	"coordinator_host":    "",
	"num_workers":         0,
	"tasks_per_worker":    1,
	"worker_join_timeout": "5s",
	"worker_join_retries": 5,
	"rpc_timeout":         "5s",
	"task_timeout":        "0s",
	"compression":         "lz4",
	"log_level":           "info",
	"log_format":          "console",
}

// LoadNodeOptions builds NodeOptions from, in increasing order of precedence,
// defaults, an optional config file, and DISTITER_-prefixed environment
// variables (including those of a .env file). The result is validated and
// defaulted, and the process's root logger is configured from it.
func LoadNodeOptions(opts ...LoaderOption) (*NodeOptions, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if err := loadEnvFile(lc.envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, def := range nodeOptionKeys {
		v.SetDefault(key, def)
	}
	if lc.configFile != "" {
		v.SetConfigFile(lc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", lc.configFile, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	res := &NodeOptions{}
	if err := v.Unmarshal(res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal NodeOptions: %w", err)
	}
	if err := ensureDefaultNodeOptionsValues(res); err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(res.LogLevel)
	if err != nil {
		return nil, err
	}
	logging.Configure(logging.Config{Level: level, Format: res.LogFormat})
	return res, nil
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}
