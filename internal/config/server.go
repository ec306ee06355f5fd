package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	SchemaPath  string `env:"SCHEMA_PATH" envDefault:"migrations/000001_init.up.sql"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	StrengthPerOrder float64 `env:"STRENGTH_PER_ORDER" envDefault:"1.0"`
	ScorePerOrder    float64 `env:"SCORE_PER_ORDER" envDefault:"1.0"`

	PushEnabled     bool   `env:"MESH_PUSH_ENABLED" envDefault:"false"`
	PushConfigPath  string `env:"MESH_PUSH_CONFIG_PATH"`
	PushWorkers     int    `env:"MESH_PUSH_WORKERS" envDefault:"4"`
	PushRetryMax    int    `env:"MESH_PUSH_RETRY_MAX" envDefault:"3"`
	PushRetryBaseMS int    `env:"MESH_PUSH_RETRY_BASE_MS" envDefault:"500"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
