package aurakit

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
)

const DefaultAppID = "auraheart-v2"

const (
	EnvBackendConfig    = "AURA_BACKEND_CONFIG"
	EnvAppID            = "AURA_APP_ID"
	EnvInitialAuthToken = "AURA_INITIAL_AUTH_TOKEN"
)

type Config struct {
	Endpoint         string `json:"endpoint"`
	AppID            string `json:"app_id"`
	InitialAuthToken string `json:"-"`
}

// LoadConfig reads the kit configuration from the environment. A .env file
// in the working directory is loaded first when present; variables already
// set in the environment win.
func LoadConfig(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if raw := os.Getenv(EnvBackendConfig); len(raw) > 0 {
		if err := jsoniter.UnmarshalFromString(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("unable to parse %s: %v", EnvBackendConfig, err)
		}
	}
	if len(cfg.Endpoint) == 0 {
		return cfg, fmt.Errorf("%s has no endpoint", EnvBackendConfig)
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	if appID := os.Getenv(EnvAppID); len(appID) > 0 {
		cfg.AppID = appID
	}
	if len(cfg.AppID) == 0 {
		cfg.AppID = DefaultAppID
	}
	cfg.InitialAuthToken = os.Getenv(EnvInitialAuthToken)

	return cfg, nil
}
