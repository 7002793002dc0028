package config

import (
	"github.com/spf13/viper"
)

type DBConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	EdgeURL          string `mapstructure:"edge_url"`
}

func (config DBConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("db.edge_url", "EDGE_URL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
