package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		supplied string
	}{
		{"generated when absent", ""},
		{"caller id kept", "req-42"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(RequestID())
			r.GET("/", func(c *gin.Context) {
				seen = RequestIDFrom(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.supplied != "" {
				req.Header.Set(RequestIDHeader, test.supplied)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("no request id in context")
			}
			if test.supplied != "" && seen != test.supplied {
				t.Errorf("id = %q, want supplied %q", seen, test.supplied)
			}
			if got := w.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("response header = %q, want %q", got, seen)
			}
		})
	}
}

func TestOriginCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    int
	}{
		{"match", []string{"host.example.com"}, "https://host.example.com", http.StatusOK},
		{"substring match", []string{"example.com"}, "https://a.example.com", http.StatusOK},
		{"no match", []string{"host.example.com"}, "https://evil.net", http.StatusForbidden},
		{"no origin header passes", []string{"host.example.com"}, "", http.StatusOK},
		{"empty allow-list disables check", nil, "https://anywhere.net", http.StatusOK},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", OriginCheck(test.allowed), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if test.origin != "" {
				req.Header.Set("Origin", test.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != test.want {
				t.Errorf("status = %d, want %d", w.Code, test.want)
			}
		})
	}
}
