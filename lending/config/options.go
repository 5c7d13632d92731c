package config

import (
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"go.uber.org/zap/zapcore"
)

type Option func(cfg *Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(cfg *Config) {
		cfg.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Server.WriteTimeout = timeout
	}
}

func WithPolicy(p model.Policy) Option {
	return func(cfg *Config) {
		cfg.Policy = p
	}
}

func WithDriver(driver string) Option {
	return func(cfg *Config) {
		cfg.DBDriver = driver
	}
}
