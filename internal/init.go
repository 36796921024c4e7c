package internal

import (
	"fmt"
)

// Init loads and validates the configuration, then installs the global logger.
func Init(configFile string) (*Config, *Logger, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	if err := InitGlobalLogger(cfg.Log.Dir, cfg.LogLevel(), AllComponents()); err != nil {
		// If logger initialization fails, use the default logger
		logger := GetLogger()
		logger.Error(ComponentGeneral, "Error initializing logger: %v", err)
		return cfg, logger, nil
	}

	logger := GetLogger()
	logger.SetLevel(cfg.LogLevel())
	return cfg, logger, nil
}
