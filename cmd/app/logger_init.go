package main

import (
	"github.com/loadoutlab/armory/internal/config"
	"github.com/loadoutlab/armory/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source info is only worth the cost in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		"armory",
		cfg.Environment,
		addSource,
	))
}
