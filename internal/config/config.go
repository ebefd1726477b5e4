package config

import (
	"os"
	"strings"
)

type Config struct {
	AppPort string

	UpstreamTokenURL  string
	UpstreamSecretKey string
	UpstreamMode      string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string

	FrameURL       string
	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "3001"),

		UpstreamTokenURL:  os.Getenv("UPSTREAM_TOKEN_URL"),
		UpstreamSecretKey: os.Getenv("UPSTREAM_SECRET_KEY"),
		UpstreamMode:      getenv("UPSTREAM_MODE", "remote"),

		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),

		FrameURL:       os.Getenv("FRAME_URL"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
