package config

import (
	"time"

	"github.com/spf13/viper"
)

// SearchConfig tunes the search/suggestion flow.
type SearchConfig struct {
	Debounce         time.Duration
	Limit            int
	PopularLimit     int
	StaleTime        time.Duration // search results stay fresh this long
	Retention        time.Duration // unused search results are dropped after this long
	PopularStaleTime time.Duration
	PopularRetention time.Duration
	RetryAttempts    int
	RetryBackoff     time.Duration
}

func loadSearch(v *viper.Viper) SearchConfig {
	return SearchConfig{
		Debounce:         durationOrDefault(v, keySearchDebounce, defaultSearchDebounce),
		Limit:            intOrDefault(v, keySearchLimit, defaultSearchLimit),
		PopularLimit:     intOrDefault(v, keyPopularLimit, defaultPopularLimit),
		StaleTime:        durationOrDefault(v, keySearchStaleTime, defaultSearchStaleTime),
		Retention:        durationOrDefault(v, keySearchRetention, defaultSearchRetention),
		PopularStaleTime: durationOrDefault(v, keyPopularStaleTime, defaultPopularStaleTime),
		PopularRetention: durationOrDefault(v, keyPopularRetention, defaultPopularRetention),
		RetryAttempts:    intOrDefault(v, keySearchRetryAttempts, defaultSearchRetryAttempts),
		RetryBackoff:     durationOrDefault(v, keySearchRetryBackoff, defaultSearchRetryBackoff),
	}
}
