package client

import (
	"context"
	"net"
	"net/url"
	"time"
)

// Probe returns a connectivity check that dials the backend host. The dial
// gives up after timeout or when ctx is done.
func Probe(baseURL string, timeout time.Duration) func(context.Context) bool {
	addr := hostPort(baseURL)
	dialer := &net.Dialer{Timeout: timeout}
	return func(ctx context.Context) bool {
		if addr == "" {
			return false
		}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}

func hostPort(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	if port := u.Port(); port != "" {
		return net.JoinHostPort(u.Hostname(), port)
	}
	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}
