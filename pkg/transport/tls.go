package transport

import (
	"crypto/tls"
	"net"
)

// NewClientTLSConfig creates the TLS configuration used when the ssl flag
// is set. The server name is derived from the collector host unless the
// caller supplies a full config of their own.
func NewClientTLSConfig(host string, insecureSkipVerify bool) *tls.Config {
	serverName := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		serverName = h
	}

	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         serverName,
		InsecureSkipVerify: insecureSkipVerify,
	}
}
