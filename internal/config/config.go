package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Fitting struct {
		// Natural-scale starting points for the hyperbolic fit; the
		// estimator optimizes their logs.
		InitialK    float64 `env:"FIT_INITIAL_K" envDefault:"0.01"`
		InitialBeta float64 `env:"FIT_INITIAL_BETA" envDefault:"1.0"`
		// 0 leaves the optimizer uncapped.
		MaxIterations int `env:"FIT_MAX_ITERATIONS" envDefault:"0"`
	}
	Study struct {
		// Optional YAML file overriding the default stimulus bounds.
		ParameterFile string `env:"STUDY_PARAMETER_FILE"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}
