// internal/workers/matching/simulate-match/config.go
package simulatematch

import (
	"time"

	"capital-match/internal/common/validation"
	"capital-match/internal/simulation"
)

type Config struct {
	Timeout time.Duration
	Bounds  simulation.ParamBounds
	Schema  *validation.Schema
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Bounds:  simulation.DefaultBounds(),
	}
}
