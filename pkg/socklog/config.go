package socklog

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/typhonjs/socklog-go/pkg/transport"
	"github.com/typhonjs/socklog-go/pkg/wire"
)

// DefaultReconnectInterval is the fixed delay before a new connection
// attempt after an unexpected close.
const DefaultReconnectInterval = 5 * time.Second

// Configuration errors.
var (
	// ErrMissingHost indicates a config without a collector address.
	ErrMissingHost = errors.New("collector host is required")

	// ErrUnknownSerializer indicates an unrecognized serializer name.
	ErrUnknownSerializer = errors.New("unknown serializer")
)

// Config holds the connection options for a Logger. It is read once at
// construction and immutable afterward; notifications carry a copy of the
// active config as their payload.
//
// The zero value is not usable: build on DefaultConfig to get the documented
// defaults (autoConnect and autoReconnect enabled, JSON serializer, 5s
// reconnect interval).
type Config struct {
	// Host is the collector address as "domain:port".
	Host string `yaml:"host"`

	// SSL wraps the connection in TLS. Default: false.
	SSL bool `yaml:"ssl"`

	// InsecureSkipVerify disables certificate verification on the SSL path.
	// Only for testing - never use in production!
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`

	// Serializer encodes and decodes wire messages. Nil means the standard
	// JSON codec.
	Serializer wire.Serializer `yaml:"-"`

	// AutoConnect issues a transport connect at construction. Default: true.
	AutoConnect bool `yaml:"autoConnect"`

	// AutoReconnect schedules a reconnect after every unexpected close.
	// Default: true. A manual Disconnect is never auto-retried.
	AutoReconnect bool `yaml:"autoReconnect"`

	// ReconnectInterval is the fixed reconnect delay. Default: 5s.
	// There is no exponential backoff and no retry cap.
	ReconnectInterval time.Duration `yaml:"-"`

	// TransportFactory creates the transport, receiving the handler that
	// must be fed lifecycle events. If nil, a TCP transport dialing Host
	// is used. Set this in tests to inject fake transports.
	TransportFactory func(h transport.Handler) transport.Transport `yaml:"-"`
}

// DefaultConfig returns the default configuration for the given collector.
func DefaultConfig(host string) Config {
	return Config{
		Host:              host,
		Serializer:        wire.JSONSerializer{},
		AutoConnect:       true,
		AutoReconnect:     true,
		ReconnectInterval: DefaultReconnectInterval,
	}
}

// withDefaults fills zero-value fields that have non-zero defaults.
func (c Config) withDefaults() Config {
	if c.Serializer == nil {
		c.Serializer = wire.JSONSerializer{}
	}
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = DefaultReconnectInterval
	}
	return c
}

// SerializerByName returns the serializer registered under name:
// "json" (the default) or "cbor".
func SerializerByName(name string) (wire.Serializer, error) {
	switch name {
	case "", "json":
		return wire.JSONSerializer{}, nil
	case "cbor":
		return wire.CBORSerializer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSerializer, name)
	}
}

// framingModeFor maps a serializer onto the transport framing that can
// carry its output.
func framingModeFor(s wire.Serializer) transport.Mode {
	if _, binary := s.(wire.CBORSerializer); binary {
		return transport.ModeBase64
	}
	return transport.ModeText
}

// fileConfig is the YAML representation of Config. Booleans are pointers so
// absent keys fall back to the defaults rather than to false.
type fileConfig struct {
	Host                string `yaml:"host"`
	SSL                 *bool  `yaml:"ssl"`
	InsecureSkipVerify  *bool  `yaml:"insecureSkipVerify"`
	Serializer          string `yaml:"serializer"`
	AutoConnect         *bool  `yaml:"autoConnect"`
	AutoReconnect       *bool  `yaml:"autoReconnect"`
	ReconnectIntervalMs int    `yaml:"reconnectIntervalMs"`
}

// LoadConfig reads a YAML config file and merges it over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if fc.Host == "" {
		return Config{}, ErrMissingHost
	}

	cfg := DefaultConfig(fc.Host)
	if fc.SSL != nil {
		cfg.SSL = *fc.SSL
	}
	if fc.InsecureSkipVerify != nil {
		cfg.InsecureSkipVerify = *fc.InsecureSkipVerify
	}
	if fc.AutoConnect != nil {
		cfg.AutoConnect = *fc.AutoConnect
	}
	if fc.AutoReconnect != nil {
		cfg.AutoReconnect = *fc.AutoReconnect
	}
	if fc.ReconnectIntervalMs > 0 {
		cfg.ReconnectInterval = time.Duration(fc.ReconnectIntervalMs) * time.Millisecond
	}

	serializer, err := SerializerByName(fc.Serializer)
	if err != nil {
		return Config{}, err
	}
	cfg.Serializer = serializer

	return cfg, nil
}
