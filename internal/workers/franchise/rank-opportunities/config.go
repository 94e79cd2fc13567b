// internal/workers/franchise/rank-opportunities/config.go
package rankopportunities

import "time"

type Config struct {
	// MaxItems caps inline catalogs. Zero means no cap.
	MaxItems int
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxItems: 500,
		Timeout:  15 * time.Second,
	}
}
