package config

import (
	"path/filepath"
	"time"
)

type ClientConfig interface {
	GetSessionFile() string
	GetRequestTimeout() time.Duration
	GetPollInterval() time.Duration
	GetRefreshCoalescing() bool
}

type Client struct{}

var _ ClientConfig = Client{}

// GetSessionFile is where the CLI persists the session between runs.
func (Client) GetSessionFile() string {
	return GetEnv("SESSION_FILE", filepath.Join(EnvVars{}.GetDataFolder(), "session.json"))
}

func (Client) GetRequestTimeout() time.Duration {
	return GetDuration("REQUEST_TIMEOUT", 30*time.Second)
}

func (Client) GetPollInterval() time.Duration {
	return GetDuration("POLL_INTERVAL", 10*time.Second)
}

// GetRefreshCoalescing enables single-flight refreshes across concurrent requests.
// Off by default: every rejected request refreshes on its own.
func (Client) GetRefreshCoalescing() bool {
	return GetBool("REFRESH_COALESCING", false)
}
