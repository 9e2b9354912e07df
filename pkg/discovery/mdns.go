package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/enbility/zeroconf/v3"
)

// Advertiser advertises a collector over mDNS.
type Advertiser struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	mu     sync.Mutex
	server *zeroconf.Server
}

// Advertise starts advertising a collector instance. A previous
// advertisement by this Advertiser is replaced.
func (a *Advertiser) Advertise(instance string, port int, serializer string, ssl bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	var ifaces []net.Interface
	if a.Interface != "" {
		iface, err := net.InterfaceByName(a.Interface)
		if err != nil {
			return fmt.Errorf("unknown interface %q: %w", a.Interface, err)
		}
		ifaces = []net.Interface{*iface}
	}

	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		port,
		EncodeTXT(serializer, ssl),
		ifaces,
	)
	if err != nil {
		return fmt.Errorf("failed to register collector service: %w", err)
	}

	a.server = server
	return nil
}

// Stop stops advertising.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Browse searches for collectors until the context is cancelled. Services
// are aggregated by instance name; each collector is emitted once.
func Browse(ctx context.Context) (<-chan *Collector, error) {
	out := make(chan *Collector)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]struct{})

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if _, dup := seen[entry.Instance]; dup {
					continue
				}
				seen[entry.Instance] = struct{}{}

				select {
				case out <- entryToCollector(entry):
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	// Start browsing in background
	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed)
	}()

	return out, nil
}

// entryToCollector converts a zeroconf entry to a Collector.
func entryToCollector(entry *zeroconf.ServiceEntry) *Collector {
	serializer, ssl := DecodeTXT(entry.Text)

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Collector{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Addresses:    addrs,
		Port:         entry.Port,
		Serializer:   serializer,
		SSL:          ssl,
	}
}
