package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		// The two secrets must never be interchangeable: each token kind
		// verifies only under its own secret.
		AccessSecret  string        `mapstructure:"access_secret"`
		RefreshSecret string        `mapstructure:"refresh_secret"`
		AccessTTL     time.Duration `mapstructure:"access_ttl"`
		RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"jwt"`
	Auth struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"auth"`
	RateLimit struct {
		Enabled      bool          `mapstructure:"enabled"`
		Requests     int           `mapstructure:"requests"`
		Window       time.Duration `mapstructure:"window"`
		AuthRequests int           `mapstructure:"auth_requests"`
		AuthWindow   time.Duration `mapstructure:"auth_window"`
	} `mapstructure:"ratelimit"`
	Cleanup struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"cleanup"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	applyDefaults()
}

func applyDefaults() {
	if AppConfig.JWT.AccessTTL <= 0 {
		AppConfig.JWT.AccessTTL = 15 * time.Minute
	}
	if AppConfig.JWT.RefreshTTL <= 0 {
		AppConfig.JWT.RefreshTTL = 7 * 24 * time.Hour
	}
	if AppConfig.Auth.BcryptCost <= 0 {
		AppConfig.Auth.BcryptCost = 12
	}
	if AppConfig.RateLimit.Requests <= 0 {
		AppConfig.RateLimit.Requests = 60
	}
	if AppConfig.RateLimit.Window <= 0 {
		AppConfig.RateLimit.Window = time.Minute
	}
	if AppConfig.RateLimit.AuthRequests <= 0 {
		AppConfig.RateLimit.AuthRequests = 10
	}
	if AppConfig.RateLimit.AuthWindow <= 0 {
		AppConfig.RateLimit.AuthWindow = time.Minute
	}
	if AppConfig.Cleanup.Interval <= 0 {
		AppConfig.Cleanup.Interval = time.Hour
	}
}
