package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	RabbitMQURL   string
	LogLevel      string
	LogPretty     bool
}

func Load() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "swapuser")
	viper.SetDefault("DB_PASSWORD", "swappassword")
	viper.SetDefault("DB_NAME", "skill_swap")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.AutomaticEnv()

	return &Config{
		Port:          viper.GetString("PORT"),
		DBHost:        viper.GetString("DB_HOST"),
		DBPort:        viper.GetString("DB_PORT"),
		DBUser:        viper.GetString("DB_USER"),
		DBPassword:    viper.GetString("DB_PASSWORD"),
		DBName:        viper.GetString("DB_NAME"),
		DBSSLMode:     viper.GetString("DB_SSLMODE"),
		RedisHost:     viper.GetString("REDIS_HOST"),
		RedisPort:     viper.GetString("REDIS_PORT"),
		SessionSecret: viper.GetString("SESSION_SECRET"),
		GinMode:       viper.GetString("GIN_MODE"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		LogPretty:     viper.GetBool("LOG_PRETTY"),
	}
}
