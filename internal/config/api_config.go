package config

import (
	"fmt"
	"github.com/spf13/viper"
)

type APIConfig struct {
	Port                 int     `mapstructure:"port"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
	RetentionDays        int     `mapstructure:"retention_days"`
}

func (config APIConfig) validate() error {

	if config.Port <= 0 {
		return fmt.Errorf("invalid variable: port must be positive")
	}

	if config.RetentionDays <= 0 {
		return fmt.Errorf("invalid variable: retention_days must be positive")
	}

	return nil
}

func (config APIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("api.port", "PORT"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.max_requests_per_second", "MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("api.retention_days", "RETENTION_DAYS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
