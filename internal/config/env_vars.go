package config

import (
	"fmt"
	"os"
	"time"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	apiBaseURLVar    = "API_BASE_URL"
	apiTimeoutVar    = "API_TIMEOUT"
	sessionIdleVar   = "SESSION_IDLE_TIMEOUT"
	defaultAPIURL    = "https://schoolproject123.somee.com"
	defaultTimeout   = 15 * time.Second
	defaultIdleLimit = 30 * time.Minute
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "School Admin")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetAPIBaseURL returns the base URL of the school platform API.
// Every outgoing request is resolved against it.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, defaultAPIURL)
}

func (EnvVars) GetAPITimeout() time.Duration {
	return getEnvDuration(apiTimeoutVar, defaultTimeout)
}

// GetSessionIdleTimeout is the sliding lifetime of a login session,
// measured from last access.
func (EnvVars) GetSessionIdleTimeout() time.Duration {
	return getEnvDuration(sessionIdleVar, defaultIdleLimit)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
