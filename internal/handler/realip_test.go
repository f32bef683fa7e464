package handler

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		trusted    []netip.Prefix
		remoteAddr string
		xff        []string
		xRealIP    string
		want       string
	}{
		{
			name:       "no trusted proxies ignores headers",
			remoteAddr: "9.9.9.9:4000",
			xff:        []string{"1.2.3.4"},
			xRealIP:    "5.6.7.8",
			want:       "9.9.9.9",
		},
		{
			name:       "untrusted peer ignores headers",
			trusted:    proxies,
			remoteAddr: "9.9.9.9:4000",
			xff:        []string{"1.2.3.4"},
			want:       "9.9.9.9",
		},
		{
			name:       "trusted peer uses forwarded client",
			trusted:    proxies,
			remoteAddr: "10.0.0.2:4000",
			xff:        []string{"1.2.3.4"},
			want:       "1.2.3.4",
		},
		{
			name:       "spoofed left entries are skipped",
			trusted:    proxies,
			remoteAddr: "10.0.0.2:4000",
			xff:        []string{"6.6.6.6, 1.2.3.4, 10.0.0.7"},
			want:       "1.2.3.4",
		},
		{
			name:       "repeated headers",
			trusted:    proxies,
			remoteAddr: "10.0.0.2:4000",
			xff:        []string{"6.6.6.6", "1.2.3.4"},
			want:       "1.2.3.4",
		},
		{
			name:       "x-real-ip from trusted peer",
			trusted:    proxies,
			remoteAddr: "10.0.0.2:4000",
			xRealIP:    "2001:db8::1",
			want:       "2001:db8::1",
		},
		{
			name:       "garbage in chain keeps peer",
			trusted:    proxies,
			remoteAddr: "10.0.0.2:4000",
			xff:        []string{"1.2.3.4, not-an-ip"},
			want:       "10.0.0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := RealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = clientIP(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.xff {
				req.Header.Add("X-Forwarded-For", v)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}
