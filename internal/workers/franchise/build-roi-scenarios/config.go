// internal/workers/franchise/build-roi-scenarios/config.go
package buildroiscenarios

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
