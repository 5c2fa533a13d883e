package config

import (
	"os"
	"strconv"
)

type PgsqlConnectionConf struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type DatabaseConfig struct {
	Pgsql PgsqlConnectionConf
}

func DatabaseConf() *DatabaseConfig {
	return &DatabaseConfig{
		Pgsql: PgsqlConnectionConf{
			Host:     envOr("DB_HOST", "db"),
			Port:     envIntOr("DB_PORT", 5432),
			Database: envOr("DB_NAME", "postgres"),
			Username: envOr("DB_USER", "postgres"),
			Password: envOr("DB_PASSWORD", "password"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
