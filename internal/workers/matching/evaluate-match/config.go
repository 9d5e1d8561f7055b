// internal/workers/matching/evaluate-match/config.go
package evaluatematch

import (
	"time"

	"capital-match/internal/common/validation"
)

type Config struct {
	Timeout time.Duration
	// Schema validates job variables; nil accepts any well-formed input.
	Schema *validation.Schema
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
