package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"movieshop.db"`

	Auth    Auth    `envPrefix:"AUTH_"`
	Gateway Gateway `envPrefix:"GATEWAY_"`
	Redis   Redis   `envPrefix:"REDIS_"`
}

type Auth struct {
	TokenSecret   string        `env:"TOKEN_SECRET,required"`
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"1h"`
}

type Gateway struct {
	BaseApiURL    string        `env:"BASE_API_URL"`
	APIKey        string        `env:"API_KEY"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Queue    string `env:"QUEUE" envDefault:"notifications:jobs"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
