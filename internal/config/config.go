// Package config содержит логику чтения конфигурации клиентского ядра.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultAPIBaseURL — адрес серверного API по умолчанию.
const DefaultAPIBaseURL = "https://norma.nomoreparties.space/api"

// Config содержит параметры конфигурации клиентского ядра.
type Config struct {
	APIBaseURL     string `env:"API_BASE_URL"`
	TokenFile      string `env:"TOKEN_FILE"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT"`
	MockAPIAddress string `env:"MOCKAPI_ADDRESS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных
// окружения. Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIBaseURL := cfg.APIBaseURL
	envTokenFile := cfg.TokenFile
	envRequestTimeout := cfg.RequestTimeout
	envMockAPIAddress := cfg.MockAPIAddress

	flag.StringVar(&cfg.APIBaseURL, "a", DefaultAPIBaseURL, "base URL of the burger API")
	flag.StringVar(&cfg.TokenFile, "t", "tokens.json", "path to the token storage file")
	flag.IntVar(&cfg.RequestTimeout, "timeout", 10, "HTTP request timeout in seconds")
	flag.StringVar(&cfg.MockAPIAddress, "m", "localhost:8080", "address and port for the mock API server")

	flag.Parse()

	if envAPIBaseURL != "" {
		cfg.APIBaseURL = envAPIBaseURL
	}
	if envTokenFile != "" {
		cfg.TokenFile = envTokenFile
	}
	if envRequestTimeout != 0 {
		cfg.RequestTimeout = envRequestTimeout
	}
	if envMockAPIAddress != "" {
		cfg.MockAPIAddress = envMockAPIAddress
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	return cfg, nil
}
