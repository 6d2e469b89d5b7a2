package config

import (
	"time"

	"github.com/spf13/viper"
)

// IGDBConfig controls how we talk to the IGDB catalog API.
type IGDBConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RateLimit    int // requests per second
	Timeout      time.Duration
}

// Configured reports whether credentials are present.
func (c IGDBConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func loadIGDB(v *viper.Viper) IGDBConfig {
	return IGDBConfig{
		BaseURL:      stringOrDefault(v, keyIGDBBaseURL, defaultIGDBBaseURL),
		TokenURL:     stringOrDefault(v, keyIGDBTokenURL, defaultIGDBTokenURL),
		ClientID:     stringOrDefault(v, keyIGDBClientID, ""),
		ClientSecret: stringOrDefault(v, keyIGDBClientSecret, ""),
		RateLimit:    intOrDefault(v, keyIGDBRateLimit, defaultIGDBRateLimit),
		Timeout:      durationOrDefault(v, keyIGDBTimeout, defaultIGDBTimeout),
	}
}
