// Command launcher serves the E-편한 출고 launcher page: a notice ticker,
// the outbound tool links, and the password-gated notice editor.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/afours/eshipping-launcher/internal/api"
	"github.com/afours/eshipping-launcher/internal/auth"
	"github.com/afours/eshipping-launcher/internal/branding"
	"github.com/afours/eshipping-launcher/internal/config"
	"github.com/afours/eshipping-launcher/internal/events"
	"github.com/afours/eshipping-launcher/internal/identity"
	"github.com/afours/eshipping-launcher/internal/maintenance"
	"github.com/afours/eshipping-launcher/internal/models"
	"github.com/afours/eshipping-launcher/internal/notices"
	"github.com/afours/eshipping-launcher/internal/session"
	"github.com/afours/eshipping-launcher/internal/zeroconf"
)

func main() {
	var (
		addr          = flag.String("addr", envOr("LAUNCHER_ADDR", ":8501"), "HTTP listen address")
		dataDir       = flag.String("data-dir", envOr("LAUNCHER_DATA_DIR", ""), "data directory (default: ~/.config/launcher)")
		adminPassword = flag.String("admin-password", envOr("LAUNCHER_ADMIN_PASSWORD", ""), "shared admin password (empty: built-in default)")
		emptyPolicy   = flag.String("empty-policy", envOr("LAUNCHER_EMPTY_POLICY", string(config.RestoreDefaults)), "what an emptied notice list becomes: restore-defaults or keep-empty")
		csrfKey       = flag.String("csrf-key", envOr("LAUNCHER_CSRF_KEY", ""), "64 hex chars enabling CSRF tokens on admin forms")
		secure        = flag.Bool("secure-cookies", envBool("LAUNCHER_SECURE_COOKIES", false), "mark cookies Secure (serve behind HTTPS)")
		ratePerSec    = flag.Float64("rate", envFloat("LAUNCHER_RATE", 10), "requests per second per client (0 disables)")
		mdns          = flag.Bool("mdns", envBool("LAUNCHER_MDNS", true), "advertise the page over mDNS")
		debug         = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if *dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*dataDir = filepath.Join(home, ".config", "launcher")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		slog.Error("cannot create data directory", "path", *dataDir, "err", err)
		os.Exit(1)
	}

	policy, err := config.ParseEmptyPolicy(*emptyPolicy)
	if err != nil {
		slog.Error("invalid empty policy", "err", err)
		os.Exit(1)
	}

	var key []byte
	if *csrfKey != "" {
		key, err = hex.DecodeString(*csrfKey)
		if err != nil || len(key) != 32 {
			slog.Error("csrf key must be 64 hex characters")
			os.Exit(1)
		}
	} else {
		slog.Warn("csrf protection disabled; set LAUNCHER_CSRF_KEY to enable it")
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := config.NewJSONStore(*dataDir, policy)
	bus := events.NewBus()
	svc := notices.New(store, bus)
	go func() {
		if err := svc.Watch(ctx); err != nil {
			slog.Warn("notice file watch stopped", "err", err)
		}
	}()

	gate := auth.NewGate(*adminPassword)
	sessions := session.NewManager(*secure)
	id := identity.Load(*dataDir)

	maint := maintenance.New(*dataDir, store.Path(), sessions)
	go maint.Start(ctx)

	if *mdns {
		zc := zeroconf.New(id.Hostname, listenPort(*addr), id.Version)
		go func() {
			if err := zc.Start(ctx); err != nil {
				slog.Warn("zeroconf failed", "err", err)
			}
		}()
	}

	opts := api.Options{
		Notices:  svc,
		Gate:     gate,
		Sessions: sessions,
		Events:   bus,
		Links: func() []models.Link {
			return config.LoadLinks(*dataDir)
		},
		Backups:       maint,
		Hostname:      id.Hostname,
		Version:       id.Version,
		CSRFKey:       key,
		SecureCookies: *secure,
		RatePerSecond: *ratePerSec,
		RateBurst:     int(*ratePerSec * 2),
	}
	logoPath := filepath.Join(*dataDir, "logo.png")
	if logo, err := branding.LoadLogo(logoPath); err == nil {
		opts.Logo = logo
	} else if errors.Is(err, os.ErrNotExist) {
		slog.Info("no logo installed", "path", logoPath)
	} else {
		slog.Warn("cannot load logo", "path", logoPath, "err", err)
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.NewRouter(opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("launcher listening", "addr", *addr, "data", *dataDir, "policy", policy, "version", id.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}
	slog.Info("shutdown complete")
}

// listenPort extracts the port from a listen address, defaulting to 80.
func listenPort(addr string) int {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 80
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 80
	}
	return n
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}
