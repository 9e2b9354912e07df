package discovery

import (
	"testing"
)

func TestEncodeTXT(t *testing.T) {
	txt := EncodeTXT("cbor", true)
	if len(txt) != 2 || txt[0] != "ser=cbor" || txt[1] != "ssl=1" {
		t.Errorf("EncodeTXT = %v, want [ser=cbor ssl=1]", txt)
	}

	txt = EncodeTXT("", false)
	if len(txt) != 1 || txt[0] != "ser=json" {
		t.Errorf("EncodeTXT with defaults = %v, want [ser=json]", txt)
	}
}

func TestDecodeTXT(t *testing.T) {
	tests := []struct {
		name           string
		txt            []string
		wantSerializer string
		wantSSL        bool
	}{
		{"full", []string{"ser=cbor", "ssl=1"}, "cbor", true},
		{"defaults", nil, "json", false},
		{"unknown keys ignored", []string{"ver=2", "ser=json"}, "json", false},
		{"malformed entries skipped", []string{"noequals", "ser=cbor"}, "cbor", false},
		{"ssl off", []string{"ssl=0"}, "json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serializer, ssl := DecodeTXT(tt.txt)
			if serializer != tt.wantSerializer {
				t.Errorf("serializer = %q, want %q", serializer, tt.wantSerializer)
			}
			if ssl != tt.wantSSL {
				t.Errorf("ssl = %v, want %v", ssl, tt.wantSSL)
			}
		})
	}
}

func TestCollectorAddr(t *testing.T) {
	c := &Collector{Host: "machine.local.", Port: 7071}
	if got := c.Addr(); got != "machine.local:7071" {
		t.Errorf("Addr() = %q, want machine.local:7071", got)
	}

	// A resolved address wins over the host name.
	c.Addresses = []string{"192.168.1.10"}
	if got := c.Addr(); got != "192.168.1.10:7071" {
		t.Errorf("Addr() = %q, want 192.168.1.10:7071", got)
	}
}
