package engine

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	// Registers the "sqlserver" database/sql driver.
	_ "github.com/microsoft/go-mssqldb"
)

// ProbeConfig controls the readiness probe.
type ProbeConfig struct {
	// Host is the address the mapped port is published on.
	Host string

	// Port is the host-side port mapped to the engine port.
	Port int

	// SAPassword is the administrator credential to log in with.
	SAPassword string

	// Interval is the delay between login attempts.
	Interval time.Duration
}

// DefaultProbeInterval is the delay between login attempts.
const DefaultProbeInterval = 2 * time.Second

// connString builds a sqlserver:// URL for the sa login against master.
// Encryption is disabled: the dev images ship self-signed certificates.
func (p ProbeConfig) connString() string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword("sa", p.SAPassword),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
	}
	q := url.Values{}
	q.Set("database", "master")
	q.Set("encrypt", "disable")
	q.Set("dial timeout", "3")
	u.RawQuery = q.Encode()
	return u.String()
}

// WaitReady blocks until the engine accepts an sa login or ctx expires.
// A running container is not a ready engine: SQL Server spends several
// seconds (longer on first boot) initializing master before the sa login
// works, and a rejected password only surfaces here.
func WaitReady(ctx context.Context, cfg ProbeConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultProbeInterval
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	var lastErr error
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		lastErr = tryLogin(ctx, cfg)
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("engine not ready: %w (last attempt: %v)", ctx.Err(), lastErr)
			}
			return fmt.Errorf("engine not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// tryLogin makes a single login attempt. A TCP precheck avoids paying the
// driver's handshake timeout while the engine hasn't bound the port yet.
func tryLogin(ctx context.Context, cfg ProbeConfig) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	d := net.Dialer{Timeout: time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d not accepting connections: %w", cfg.Port, err)
	}
	conn.Close()

	db, err := sql.Open("sqlserver", cfg.connString())
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("sa login: %w", err)
	}
	return nil
}
