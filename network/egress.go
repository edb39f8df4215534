package network

import (
	"errors"
	"net/http"
	"strings"
)

// ErrBlocked the request is not allowed to leave the process
var ErrBlocked = errors.New("egress blocked")

// Guard a RoundTripper letting only http(s) requests through, to the allowed hosts when any are set
type Guard struct {
	Base  http.RoundTripper
	Hosts map[string]bool
}

// NewGuard wrap base with an egress guard
func NewGuard(base http.RoundTripper, hosts []string) *Guard {
	allowed := map[string]bool{}
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowed[host] = true
		}
	}
	return &Guard{Base: base, Hosts: allowed}
}

// RoundTrip check the request then hand it to the base transport
func (guard *Guard) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL == nil {
		return nil, ErrBlocked
	}

	switch req.URL.Scheme {
	case "http", "https":
	default:
		return nil, ErrBlocked
	}

	host := strings.ToLower(req.URL.Hostname())
	if host == "" {
		return nil, ErrBlocked
	}
	if len(guard.Hosts) > 0 && !guard.Hosts[host] {
		return nil, ErrBlocked
	}

	base := guard.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
