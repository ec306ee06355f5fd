package config

import "github.com/caarlos0/env/v11"

// TestConfig holds the settings integration tests need. LoadTest fails
// when TEST_POSTGRES_DSN is absent, which the tests treat as a skip.
type TestConfig struct {
	PostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	cfg := TestConfig{}
	if err := env.Parse(&cfg); err != nil {
		return TestConfig{}, err
	}
	return cfg, nil
}
