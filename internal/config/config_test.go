package config

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a.example.com", []string{"a.example.com"}},
		{"a.example.com,b.example.com", []string{"a.example.com", "b.example.com"}},
		{" a.example.com , ,b.example.com ", []string{"a.example.com", "b.example.com"}},
	}

	for _, test := range tests {
		if got := splitList(test.in); !reflect.DeepEqual(got, test.want) {
			t.Errorf("splitList(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("UPSTREAM_MODE", "")

	cfg := Load()

	if cfg.AppPort != "3001" {
		t.Errorf("AppPort = %q, want 3001", cfg.AppPort)
	}
	if cfg.UpstreamMode != "remote" {
		t.Errorf("UpstreamMode = %q, want remote", cfg.UpstreamMode)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("UPSTREAM_TOKEN_URL", "https://up.example/token")
	t.Setenv("UPSTREAM_SECRET_KEY", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "a.example.com,b.example.com")

	cfg := Load()

	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q", cfg.AppPort)
	}
	if cfg.UpstreamTokenURL != "https://up.example/token" || cfg.UpstreamSecretKey != "s3cret" {
		t.Errorf("upstream config = %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
