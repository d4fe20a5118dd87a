// ABOUTME: Stable per-installation actor identity, persisted to the data directory.
// ABOUTME: The same ID is returned across sessions so reaction dedupe survives restarts.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const fileName = "identity"

// GetOrCreate returns the stable actor ID stored under dir, generating and
// persisting a fresh one on first use. The ID is an opaque string; callers
// must not parse it.
func GetOrCreate(dir string) (string, error) {
	path := filepath.Join(dir, fileName)

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
		// Empty file from an interrupted first run: regenerate.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read identity file: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create identity dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write identity file: %w", err)
	}
	return id, nil
}
