package config

import "os"

type AppConfig struct {
	Env  string // test, dev or prod
	Addr string
}

func NewAppConfig() AppConfig {
	addr := os.Getenv("APP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return AppConfig{
		Env:  os.Getenv("APP_ENV"),
		Addr: addr,
	}
}
