package utils

import (
	"os"
	"strings"
)

const ENV string = "ENV"

const (
	CONFIG_TYPE string = "CONFIG_TYPE"
	CONFIG_FILE string = "FILE"
	CONFIG_MSE  string = "MSE"

	CONFIG_FILE_PATH string = "CONFIG_FILE_PATH"
)

var envPrefix string

func SetEnvPrefix(prefix string) {
	envPrefix = prefix
}

func EnvPrefix() string {
	return envPrefix
}

func GetEnv() string {
	return os.Getenv(envPrefix + ENV)
}

func GetConfigType() string {
	configType := os.Getenv(envPrefix + CONFIG_TYPE)
	if configType == "" {
		return CONFIG_FILE
	}
	return strings.ToUpper(configType)
}

func IsFileConfig() bool {
	return GetConfigType() == CONFIG_FILE
}

// GetConfigFilePath returns CONFIG_FILE_PATH, or def when unset
func GetConfigFilePath(def string) string {
	if p := os.Getenv(envPrefix + CONFIG_FILE_PATH); p != "" {
		return p
	}
	return def
}

// SplitList splits a comma separated list, trimming blanks and dropping empties.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
