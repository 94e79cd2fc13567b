// internal/workers/franchise/calculate-match-score/config.go
package calculatematchscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
