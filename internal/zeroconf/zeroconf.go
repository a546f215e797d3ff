// Package zeroconf advertises the launcher page as an mDNS/DNS-SD service so
// warehouse machines can find it on the LAN without a fixed address.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
)

const serviceType = "_http._tcp"

// Service manages mDNS service registration.
type Service struct {
	name    string // instance name, usually the hostname
	port    int
	version string
}

// New creates a zeroconf Service that will advertise name on port.
func New(name string, port int, version string) *Service {
	return &Service{name: name, port: port, version: version}
}

// TXT returns the TXT records published with the service.
func (s *Service) TXT() []string {
	return []string{"version=" + s.version, "path=/", "app=eshipping-launcher"}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at which
// point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	if s.port <= 0 {
		return fmt.Errorf("zeroconf: invalid port %d", s.port)
	}
	txt := s.TXT()

	server, err := zeroconf.Register(s.name, serviceType, "local.", s.port, txt, nil)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	slog.Info("zeroconf: registered mDNS service", "name", s.name, "port", s.port, "txt", txt)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}
