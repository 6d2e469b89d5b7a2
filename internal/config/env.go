package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

func stringOrDefault(v *viper.Viper, key, defaultValue string) string {
	val := strings.TrimSpace(v.GetString(key))
	if val != "" {
		return val
	}
	return defaultValue
}

func durationOrDefault(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func intOrDefault(v *viper.Viper, key string, defaultValue int) int {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return defaultValue
	}
	val := v.GetInt(key)
	if val <= 0 {
		return defaultValue
	}
	return val
}

func boolOrDefault(v *viper.Viper, key string, defaultValue bool) bool {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return defaultValue
	}
	if raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes") {
		return true
	}
	if raw == "0" || strings.EqualFold(raw, "false") || strings.EqualFold(raw, "no") {
		return false
	}
	return defaultValue
}
