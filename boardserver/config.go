// ABOUTME: Server configuration loaded from WISHWEAVER_* environment variables.
// ABOUTME: Enforces security constraint: remote access requires auth token.
package boardserver

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
)

var (
	ErrRemoteWithoutToken = errors.New(
		"WISHWEAVER_ALLOW_REMOTE is true but WISHWEAVER_AUTH_TOKEN is not set; refusing to start without authentication",
	)
	ErrNonLoopbackBind = errors.New(
		"WISHWEAVER_BIND is a non-loopback address but WISHWEAVER_ALLOW_REMOTE is not true; set WISHWEAVER_ALLOW_REMOTE=true and WISHWEAVER_AUTH_TOKEN to allow remote access",
	)
)

// Config holds board server configuration loaded from environment variables.
type Config struct {
	Home        string // Data directory (WISHWEAVER_HOME, default: ~/.wishweaver)
	Bind        string // Socket address (WISHWEAVER_BIND, default: 127.0.0.1:8377)
	AllowRemote bool   // Allow non-loopback connections (WISHWEAVER_ALLOW_REMOTE, default: false)
	AuthToken   string // Bearer token for API auth (WISHWEAVER_AUTH_TOKEN, optional)
}

// ConfigFromEnv loads configuration from WISHWEAVER_* environment variables
// with sensible defaults.
func ConfigFromEnv() (*Config, error) {
	home := os.Getenv("WISHWEAVER_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "/tmp"
		}
		home = filepath.Join(homeDir, ".wishweaver")
	}

	bind := os.Getenv("WISHWEAVER_BIND")
	if bind == "" {
		bind = "127.0.0.1:8377"
	}

	allowRemote := false
	if v := os.Getenv("WISHWEAVER_ALLOW_REMOTE"); v == "true" || v == "1" || v == "yes" {
		allowRemote = true
	}

	authToken := os.Getenv("WISHWEAVER_AUTH_TOKEN")

	// Security: remote access requires auth token
	if allowRemote && authToken == "" {
		return nil, ErrRemoteWithoutToken
	}

	// Security: refuse non-loopback binds unless explicitly opting into remote
	// access. Checks both IP literals and hostnames; only 127.0.0.0/8, ::1,
	// and "localhost" are considered safe.
	if !allowRemote {
		if host, _, err := net.SplitHostPort(bind); err == nil && host != "" {
			ip := net.ParseIP(host)
			switch {
			case ip != nil && ip.IsLoopback():
				// Safe: 127.x.x.x or ::1
			case ip != nil:
				return nil, fmt.Errorf("%w: WISHWEAVER_BIND=%s", ErrNonLoopbackBind, bind)
			case host == "localhost":
				// Safe: conventional loopback hostname
			default:
				return nil, fmt.Errorf("%w: WISHWEAVER_BIND=%s", ErrNonLoopbackBind, bind)
			}
		}
	}

	return &Config{
		Home:        home,
		Bind:        bind,
		AllowRemote: allowRemote,
		AuthToken:   authToken,
	}, nil
}
