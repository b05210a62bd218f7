package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// BookingConfig drives the availability grid: hour buckets are computed in
// Timezone, between OpenHour and CloseHour inclusive.
type BookingConfig struct {
	Timezone        string
	OpenHour        int
	CloseHour       int
	SessionTTLHours int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("TIMEZONE", "America/Bogota")
	viper.SetDefault("OPEN_HOUR", 6)
	viper.SetDefault("CLOSE_HOUR", 23)
	viper.SetDefault("SESSION_TTL_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			Timezone:        viper.GetString("TIMEZONE"),
			OpenHour:        viper.GetInt("OPEN_HOUR"),
			CloseHour:       viper.GetInt("CLOSE_HOUR"),
			SessionTTLHours: viper.GetInt("SESSION_TTL_HOURS"),
		},
	}

	return config, nil
}
