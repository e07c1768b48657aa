package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration is the back-office runtime configuration. Values come from
// config.yaml when present, overridden by BACKOFFICE_* environment variables
// and the unprefixed PORT, DB_DSN and JWT_SECRET kept for existing deployments.
type Configuration struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	DB     DBConfig     `mapstructure:"db" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth" validate:"required"`
	Log    LogConfig    `mapstructure:"log"`
	Admin  AdminConfig  `mapstructure:"admin"`
}

type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=16"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type AdminConfig struct {
	PreviewMaxWidth    int `mapstructure:"preview_max_width" validate:"gte=0"`
	PageSize           int `mapstructure:"page_size" validate:"gte=0,lte=500"`
	RestoreConcurrency int `mapstructure:"restore_concurrency" validate:"gte=0,lte=64"`
}

var legacyEnv = map[string]string{
	"server.port":     "PORT",
	"db.dsn":          "DB_DSN",
	"auth.jwt_secret": "JWT_SECRET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("admin.preview_max_width", 500)
	v.SetDefault("admin.page_size", 100)
	v.SetDefault("admin.restore_concurrency", 4)
}

// Load reads .env, config.yaml and the environment, then validates the result.
func Load() (*Configuration, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/backoffice")

	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "BACKOFFICE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Configuration) Validate() error {
	return validator.New().Struct(c)
}
