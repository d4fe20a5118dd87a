// ABOUTME: Sentinel errors and user-visible notices surfaced by repository operations.
// ABOUTME: Every failure is converted to a result or notice at the operation boundary; nothing is fatal.
package repo

import "errors"

var (
	// ErrNotFound means the card id does not exist in the repository. The
	// operation is rejected before any state is mutated.
	ErrNotFound = errors.New("card not found")

	// ErrDuplicateReaction means the actor already holds this reaction on the
	// card. The operation is an idempotent no-op, not a rollback.
	ErrDuplicateReaction = errors.New("duplicate reaction")

	// ErrNoIdentity means the client identity has not been bootstrapped.
	ErrNoIdentity = errors.New("client identity unavailable")

	// ErrNoGenerator means no poem generator was configured.
	ErrNoGenerator = errors.New("no poem generator configured")

	// ErrPushUnsupported means the remote store offers no live subscription.
	ErrPushUnsupported = errors.New("remote store does not support push delivery")

	// ErrClosed means the repository has been torn down.
	ErrClosed = errors.New("repository is closed")
)

// NoticeLevel classifies a notice for display.
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a user-visible message produced by an operation, the library
// equivalent of the UI's toast. Errors never propagate as uncaught faults;
// they surface here and in the operation's return value.
type Notice struct {
	Level   NoticeLevel
	Message string
}
