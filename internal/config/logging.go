package config

import "github.com/caarlos0/env/v11"

// LogConfig controls the global zerolog output. File is optional; when
// set, FileMaxMB caps how large the log file may grow before it is
// truncated and rewritten from the start.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	FileMaxMB   int    `env:"LOG_MAX_MB" envDefault:"10"`
}

func LoadLog() (LogConfig, error) {
	cfg := LogConfig{}
	if err := env.Parse(&cfg); err != nil {
		return LogConfig{}, err
	}
	return cfg, nil
}
