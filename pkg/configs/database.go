// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package configs

// DatabaseAuth carries credentials for the postgres driver.
type DatabaseAuth struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DatabaseConfig selects and configures the storage engine. The sqlite
// driver needs only Path; everything else is for postgres.
type DatabaseConfig struct {
	Driver             string       `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	Path               string       `mapstructure:"path"`
	Host               string       `mapstructure:"host"`
	Port               int          `mapstructure:"port"`
	DbName             string       `mapstructure:"db_name"`
	Auth               DatabaseAuth `mapstructure:"auth"`
	MaxOpenConnection  int          `mapstructure:"max_open_connection"`
	MaxIdealConnection int          `mapstructure:"max_ideal_connection"`
	SslMode            string       `mapstructure:"ssl_mode"`
}
