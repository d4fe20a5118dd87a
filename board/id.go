// ABOUTME: Placeholder id generation for cards awaiting remote confirmation.
// ABOUTME: Centralizes ULID creation so all placeholder ids share one entropy source.
package board

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// placeholderPrefix marks ids that were generated locally and are pending
// replacement by a server-issued id.
const placeholderPrefix = "temp-"

// NewPlaceholderID generates a transient card id. Placeholder ids are
// single-use within a session and are never persisted remotely.
func NewPlaceholderID() string {
	return placeholderPrefix + ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// IsPlaceholderID reports whether id is a locally generated placeholder.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}
