package http

import (
	"time"
)

// Http holds the fiber server configuration.
type Http struct {
	Host            string
	Port            int
	ContextPath     string `mapstructure:"contextPath"`
	ExposeMetrics   bool   `mapstructure:"exposeMetrics"`
	AccessLog       bool   `mapstructure:"accessLog"`
	BodyLimit       int    `mapstructure:"bodyLimit"`
	ReadTimeout     int    `mapstructure:"readTimeout"`
	WriteTimeout    int    `mapstructure:"writeTimeout"`
	IdleTimeout     int    `mapstructure:"idleTimeout"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	Auth            Auth
}

// Auth holds the jwt/session configuration.
type Auth struct {
	SecretKey      string        `mapstructure:"secretKey"`
	AccessExpire   time.Duration `mapstructure:"accessExpire"`
	RefreshExpire  time.Duration `mapstructure:"refreshExpire"`
	RedisKeyPrefix string        `mapstructure:"redisKeyPrefix"`
}
