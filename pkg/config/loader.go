package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the provided configuration struct from environment
// variables based on `env` field tags.
//
// On first use it attempts to load a .env file from the working directory;
// a missing .env file is not an error. Parsing failures (missing required
// variables, unparseable values) are wrapped with ErrParsingConfig.
//
// Example:
//
//	type SchedulerConfig struct {
//		Autostart       bool `env:"SCHEDULER_AUTOSTART" envDefault:"true"`
//		IntervalMinutes int  `env:"SCHEDULER_INTERVAL_MINUTES" envDefault:"60"`
//	}
//
//	var cfg SchedulerConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	defaultEnvLoaded.Do(func() {
		// The .env file is optional; real environments set variables directly.
		_ = godotenv.Load()
	})

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Intended for configurations the application cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
