// Copyright (c) 2025 StarCoach
//
// Licensed under the MIT License. See LICENSE.md for details.
package config

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/starcoachai/pkg/configs"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`
	LogPath  string `mapstructure:"log_path"`

	DatabaseConfig configs.DatabaseConfig `mapstructure:"database" validate:"required"`

	// RecordingsDir is where uploaded artifacts are written and served from.
	RecordingsDir string `mapstructure:"recordings_dir" validate:"required"`

	// MaxUploadBytes caps a single artifact upload.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"required"`

	// AllowedOrigins for the browser client.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	AnthropicApiKey string `mapstructure:"anthropic_api_key"`
	OpenAIApiKey    string `mapstructure:"openai_api_key"`
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()

	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env varaibles.")
	}

	return vConfig, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	v.SetDefault("SERVICE_NAME", "practice-api")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8000)
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_PATH", "")

	v.SetDefault("RECORDINGS_DIR", "data/recordings")
	v.SetDefault("MAX_UPLOAD_BYTES", 500*1024*1024)
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})

	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")

	v.SetDefault("DATABASE__DRIVER", "sqlite")
	v.SetDefault("DATABASE__PATH", "data/starcoach.db")
	v.SetDefault("DATABASE__HOST", "localhost")
	v.SetDefault("DATABASE__PORT", 5432)
	v.SetDefault("DATABASE__DB_NAME", "starcoach")
	v.SetDefault("DATABASE__AUTH__USER", "starcoach")
	v.SetDefault("DATABASE__AUTH__PASSWORD", "")
	v.SetDefault("DATABASE__MAX_OPEN_CONNECTION", 10)
	v.SetDefault("DATABASE__MAX_IDEAL_CONNECTION", 10)
	v.SetDefault("DATABASE__SSL_MODE", "disable")
}

// Getting application config from viper
func GetApplicationConfig(v *viper.Viper) (*AppConfig, error) {
	var config AppConfig
	err := v.Unmarshal(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}

	// valdating the app config
	validate := validator.New()
	err = validate.Struct(&config)
	if err != nil {
		log.Printf("%+v\n", err)
		return nil, err
	}
	return &config, nil
}
