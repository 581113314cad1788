package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the whole configuration surface: where to listen and how to reach the
// prediction service. Nothing else is persisted or configurable.
type Config struct {
	ListenAddr       string        `env:"LISTEN_ADDR" envDefault:":8080"`
	Env              string        `env:"APP_ENV" envDefault:"dev"`
	PredictorBaseURL string        `env:"PREDICTOR_BASE_URL,required,notEmpty"`
	PredictorAPIKey  string        `env:"PREDICTOR_API_KEY"`
	PredictorTimeout time.Duration `env:"PREDICTOR_TIMEOUT" envDefault:"10s"`
	FeatureMapTTL    time.Duration `env:"FEATURE_MAP_TTL" envDefault:"15m"`
}

func Load() (Config, error) {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
