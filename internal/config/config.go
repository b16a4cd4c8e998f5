// Package config loads application configuration from environment variables
// and an optional config.yaml, environment taking precedence. The Pipedrive
// variables keep their historical names (PIPEDRIVE_BASE,
// PIPEDRIVE_API_TOKEN); everything else is prefixed FOLLOWUP_.
package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Addr          string // FOLLOWUP_ADDR, default ":8080"
	PipedriveBase string // PIPEDRIVE_BASE, default "https://api.pipedrive.com/v1"
	APIToken      string // PIPEDRIVE_API_TOKEN, required
	AuthToken     string // FOLLOWUP_AUTH_TOKEN, optional bearer token for /daily-sweep
	SweepParallel int    // FOLLOWUP_SWEEP_PARALLEL, default 8
	WorkerQueue   int    // FOLLOWUP_WORKER_QUEUE, default 64
}

// ErrMissingAPIToken is returned when no Pipedrive API token is configured.
// Every outbound call would fail without it.
var ErrMissingAPIToken = errors.New("config: PIPEDRIVE_API_TOKEN is required")

// Load reads configuration. A missing config file is fine; a missing API
// token is not.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("addr", ":8080")
	v.SetDefault("pipedrive_base", "https://api.pipedrive.com/v1")
	v.SetDefault("sweep_parallel", 8)
	v.SetDefault("worker_queue", 64)

	v.SetEnvPrefix("FOLLOWUP")
	v.AutomaticEnv()
	_ = v.BindEnv("addr")
	_ = v.BindEnv("auth_token")
	_ = v.BindEnv("sweep_parallel")
	_ = v.BindEnv("worker_queue")
	_ = v.BindEnv("pipedrive_base", "PIPEDRIVE_BASE")
	_ = v.BindEnv("pipedrive_api_token", "PIPEDRIVE_API_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		Addr:          v.GetString("addr"),
		PipedriveBase: v.GetString("pipedrive_base"),
		APIToken:      v.GetString("pipedrive_api_token"),
		AuthToken:     v.GetString("auth_token"),
		SweepParallel: v.GetInt("sweep_parallel"),
		WorkerQueue:   v.GetInt("worker_queue"),
	}
	if cfg.APIToken == "" {
		return Config{}, ErrMissingAPIToken
	}
	return cfg, nil
}
