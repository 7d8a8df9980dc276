package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGetIPFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded chain takes the first hop",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remoteAddr: "10.0.0.1:443",
			want:       "203.0.113.7",
		},
		{
			name:       "real ip header",
			headers:    map[string]string{"X-Real-Ip": "198.51.100.4"},
			remoteAddr: "10.0.0.1:443",
			want:       "198.51.100.4",
		},
		{
			name:       "garbage header falls through to remote addr",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "no headers",
			remoteAddr: "192.0.2.20:51234",
			want:       "192.0.2.20",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			if got := GetIPFromContext(c); got != tc.want {
				t.Errorf("GetIPFromContext() = %q, want %q", got, tc.want)
			}
		})
	}
}
