package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Content struct {
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"content"`
	Quiz struct {
		QuestionTime string `yaml:"question_time"`
		RevealDelay  string `yaml:"reveal_delay"`
		RolloverHour *int   `yaml:"rollover_hour"`
		Timezone     string `yaml:"timezone"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Location resolves the configured quiz timezone. Empty means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Quiz.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Quiz.Timezone)
}

// RolloverHour returns the configured daily rollover hour or fallback when unset.
func (c Config) RolloverHour(fallback int) int {
	if c.Quiz.RolloverHour == nil {
		return fallback
	}
	return *c.Quiz.RolloverHour
}
