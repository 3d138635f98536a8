package security

import (
	"net"
	"net/http"
	"strings"
)

var trustedProxies = []*net.IPNet{
	mustCIDR("127.0.0.0/8"),
	mustCIDR("10.0.0.0/8"),
	mustCIDR("172.16.0.0/12"),
	mustCIDR("192.168.0.0/16"),
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic("invalid trusted proxy CIDR " + cidr + ": " + err.Error())
	}
	return network
}

// ExtractClientIP returns the originating client IP for a request.
// Forwarding headers are honored only when the direct peer is a
// trusted proxy, otherwise a spoofed X-Forwarded-For would defeat rate
// limiting.
func ExtractClientIP(r *http.Request) string {
	peer := remoteIP(r.RemoteAddr)

	if peer != "" && isTrustedProxy(peer) {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			// First address in the chain is the original client.
			if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
				return ip
			}
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
			return real
		}
	}

	if peer != "" {
		return peer
	}
	return r.RemoteAddr
}

func remoteIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. in tests.
		host = remoteAddr
	}
	if net.ParseIP(host) == nil {
		return ""
	}
	return host
}

func isTrustedProxy(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range trustedProxies {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}
