package discovery

import (
	"fmt"
	"net"
	"strings"
)

// Service constants for mDNS.
const (
	// ServiceType is the mDNS service type for log collectors.
	ServiceType = "_socklog._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants.
const (
	// TXTKeySerializer names the wire serializer the collector speaks
	// ("json" or "cbor").
	TXTKeySerializer = "ser"

	// TXTKeySSL is "1" when the collector requires TLS.
	TXTKeySSL = "ssl"
)

// Collector describes a discovered log collector.
type Collector struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised host name.
	Host string

	// Addresses are the resolved IP addresses.
	Addresses []string

	// Port is the collector's listen port.
	Port int

	// Serializer is the advertised wire serializer ("json" when absent).
	Serializer string

	// SSL indicates the collector requires TLS.
	SSL bool
}

// Addr returns a dialable "host:port" for the collector, preferring a
// resolved address over the advertised host name.
func (c *Collector) Addr() string {
	host := c.Host
	if len(c.Addresses) > 0 {
		host = c.Addresses[0]
	}
	return net.JoinHostPort(strings.TrimSuffix(host, "."), fmt.Sprintf("%d", c.Port))
}

// EncodeTXT builds the TXT records advertised by a collector.
func EncodeTXT(serializer string, ssl bool) []string {
	if serializer == "" {
		serializer = "json"
	}
	txt := []string{TXTKeySerializer + "=" + serializer}
	if ssl {
		txt = append(txt, TXTKeySSL+"=1")
	}
	return txt
}

// DecodeTXT extracts the collector attributes from TXT records.
// Unknown keys are ignored.
func DecodeTXT(txt []string) (serializer string, ssl bool) {
	serializer = "json"
	for _, record := range txt {
		key, value, found := strings.Cut(record, "=")
		if !found {
			continue
		}
		switch key {
		case TXTKeySerializer:
			if value != "" {
				serializer = value
			}
		case TXTKeySSL:
			ssl = value == "1"
		}
	}
	return serializer, ssl
}
