// ABOUTME: Repository is the authoritative in-process view of the board's cards.
// ABOUTME: Owns optimistic apply, snapshot rollback, placeholder confirmation, and push-snapshot merging.
package repo

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/2389-research/wishweaver/board"
	"github.com/2389-research/wishweaver/poem"
	"github.com/2389-research/wishweaver/store"
)

// pendingCreate tracks a card whose remote create is still in flight.
type pendingCreate struct {
	deleted bool
}

// Repository mediates every read and write the view performs against the
// board. Local mutations apply synchronously under the lock and become
// visible immediately; remote calls run outside the lock, and failures roll
// back to a value-copy snapshot taken at call time.
//
// Cards are held newest-first. The slice slot of a card does not move when
// its placeholder id is confirmed, so confirmation never visibly reshuffles
// the board.
type Repository struct {
	remote store.Remote

	mu      sync.Mutex
	cards   []board.Card
	pending map[string]*pendingCreate
	closed  bool

	cache     *store.Cache
	gen       poem.Generator
	actorID   string
	viewport  board.Viewport
	rng       *rand.Rand
	now       func() time.Time
	opTimeout time.Duration

	deb         *Debouncer
	snapshots   *Broadcaster[[]board.Card]
	notices     *Broadcaster[Notice]
	unsubscribe func()
}

// Option configures a Repository.
type Option func(*Repository)

// WithCache attaches a local SQLite mirror. The repository warm-starts from
// it and rewrites it after every confirmed snapshot.
func WithCache(c *store.Cache) Option {
	return func(r *Repository) { r.cache = c }
}

// WithPoemGenerator attaches the generation service used by RequestPoem.
func WithPoemGenerator(g poem.Generator) Option {
	return func(r *Repository) { r.gen = g }
}

// WithIdentity sets the client identity used as card owner and reaction actor.
func WithIdentity(id string) Option {
	return func(r *Repository) { r.actorID = id }
}

// WithViewport sets the canvas bounds used for initial card placement.
func WithViewport(vp board.Viewport) Option {
	return func(r *Repository) { r.viewport = vp }
}

// WithRand replaces the placement randomness source.
func WithRand(rng *rand.Rand) Option {
	return func(r *Repository) { r.rng = rng }
}

// WithClock replaces the local timestamp source used during the optimistic
// window before the server assigns the real creation time.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithDebounceDelay overrides the reposition quiescence window.
func WithDebounceDelay(d time.Duration) Option {
	return func(r *Repository) { r.deb.delay = d }
}

// New creates a Repository over the given remote store. Call Load or Watch
// to populate it, and Close to tear it down.
func New(remote store.Remote, opts ...Option) *Repository {
	r := &Repository{
		remote:    remote,
		pending:   make(map[string]*pendingCreate),
		viewport:  board.DefaultViewport,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       func() time.Time { return time.Now().UTC() },
		opTimeout: 30 * time.Second,
		snapshots: NewBroadcaster[[]board.Card](),
		notices:   NewBroadcaster[Notice](),
	}
	r.deb = newDebouncer(defaultDebounceDelay, r.applyPosition, r.sendPosition)
	for _, opt := range opts {
		opt(r)
	}
	if r.cache != nil {
		r.warmStart()
	}
	return r
}

// Cards returns a snapshot of the board, newest-first. The returned cards
// are deep copies.
func (r *Repository) Cards() []board.Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneCards(r.cards)
}

// Subscribe returns a channel receiving a full board snapshot after every
// visible mutation.
func (r *Repository) Subscribe() chan []board.Card {
	return r.snapshots.Subscribe()
}

// Unsubscribe removes and closes a snapshot channel.
func (r *Repository) Unsubscribe(ch chan []board.Card) {
	r.snapshots.Unsubscribe(ch)
}

// Notices returns a channel receiving user-visible notices.
func (r *Repository) Notices() chan Notice {
	return r.notices.Subscribe()
}

// Close cancels pending debounce timers and the live subscription. Cancelled
// timers never fire; positions not yet written are corrected by the next
// full load elsewhere.
func (r *Repository) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()

	r.deb.CancelAll()
	if unsub != nil {
		unsub()
	}
	r.snapshots.Close()
	r.notices.Close()
}

// Load fetches the full card set and replaces local state wholesale,
// preserving cards whose creates are still in flight. Fails soft: on error
// the previous state (or the empty board on first load) is retained and a
// recoverable error is returned. Retry is manual.
func (r *Repository) Load(ctx context.Context) error {
	cards, err := r.remote.List(ctx)
	if err != nil {
		r.notify(NoticeError, "Could not load the board. Showing the last known state.")
		return fmt.Errorf("load board: %w", err)
	}

	r.mu.Lock()
	r.mergeSnapshotLocked(cards)
	confirmed := r.confirmedLocked()
	r.broadcastLocked()
	r.mu.Unlock()

	r.writeCache(confirmed)
	return nil
}

// Watch switches to push delivery: the store streams full-state snapshots
// that supersede client-optimistic entries with server ground truth. Returns
// ErrPushUnsupported when the store offers no subscription.
func (r *Repository) Watch(ctx context.Context) error {
	sub, ok := r.remote.(store.Subscriber)
	if !ok {
		return ErrPushUnsupported
	}

	cancel, err := sub.Subscribe(ctx, func(cards []board.Card) {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		r.mergeSnapshotLocked(cards)
		confirmed := r.confirmedLocked()
		r.broadcastLocked()
		r.mu.Unlock()
		r.writeCache(confirmed)
	}, func(err error) {
		r.notify(NoticeError, "Live updates interrupted. Reload the board to reconnect.")
	})
	if err != nil {
		r.notify(NoticeError, "Could not subscribe to live updates.")
		return fmt.Errorf("watch board: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return ErrClosed
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.unsubscribe = cancel
	r.mu.Unlock()
	return nil
}

// Create builds a card from the draft, gives it a placeholder id, a local
// timestamp, and an initial placement, and inserts it immediately. The
// remote create then runs; on success the placeholder entry is swapped in
// place for the confirmed entry, on failure it is removed. The draft is not
// retried automatically.
//
// If the card is deleted locally while the create is in flight, the
// confirmation is suppressed and the zero Card is returned.
func (r *Repository) Create(ctx context.Context, draft board.Draft) (board.Card, error) {
	if err := draft.Validate(); err != nil {
		return board.Card{}, err
	}

	owner := draft.OwnerID
	if owner == "" {
		owner = r.actorID
	}

	card := board.Card{
		ID:        board.NewPlaceholderID(),
		Name:      draft.Name,
		Text:      draft.Text,
		OwnerID:   owner,
		ImageURL:  draft.ImageURL,
		Style:     draft.Style,
		Reactions: board.NewReactions(),
		ReactedBy: make(map[board.ReactionKind][]string),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return board.Card{}, ErrClosed
	}
	card.CreatedAt = r.now()
	card.Position = board.PlacePosition(r.rng, r.viewport)
	r.cards = append([]board.Card{card.Clone()}, r.cards...)
	p := &pendingCreate{}
	r.pending[card.ID] = p
	r.broadcastLocked()
	r.mu.Unlock()

	created, err := r.remote.Create(ctx, card)
	if err != nil {
		r.mu.Lock()
		delete(r.pending, card.ID)
		r.removeLocked(card.ID)
		r.broadcastLocked()
		r.mu.Unlock()
		r.notify(NoticeError, "Could not save the card. Please try again.")
		return board.Card{}, fmt.Errorf("create card: %w", err)
	}

	r.mu.Lock()
	delete(r.pending, card.ID)

	if p.deleted {
		r.mu.Unlock()
		r.deleteRemote(created.ID)
		return board.Card{}, nil
	}

	// A push snapshot may already have delivered the confirmed card. Keep
	// that entry and drop the placeholder instead of swapping.
	if _, exists := r.slotLocked(created.ID); exists {
		r.removeLocked(card.ID)
		r.deb.Rekey(card.ID, created.ID)
		slot, _ := r.slotLocked(created.ID)
		confirmed := r.cards[slot].Clone()
		r.broadcastLocked()
		r.mu.Unlock()
		return confirmed, nil
	}

	slot, ok := r.slotLocked(card.ID)
	if !ok {
		// Placeholder vanished without a pending delete; nothing to confirm.
		r.mu.Unlock()
		return board.Card{}, nil
	}
	entry := r.cards[slot]
	entry.ID = created.ID
	entry.CreatedAt = created.CreatedAt
	r.cards[slot] = entry
	r.deb.Rekey(card.ID, created.ID)
	confirmed := entry.Clone()
	snapshot := r.confirmedLocked()
	r.broadcastLocked()
	r.mu.Unlock()

	r.writeCache(snapshot)
	return confirmed, nil
}

// Update applies the full new card value immediately, snapshotting the
// previous value at call time, then sends the remainder (minus server-owned
// fields) as a partial remote update. On failure the snapshot is restored.
// Concurrent updates to the same id are last-write-wins.
func (r *Repository) Update(ctx context.Context, card board.Card) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	slot, ok := r.slotLocked(card.ID)
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	snapshot := r.cards[slot].Clone()
	applied := card.Clone()
	applied.CreatedAt = snapshot.CreatedAt
	r.cards[slot] = applied
	r.broadcastLocked()
	r.mu.Unlock()

	// Unconfirmed cards have no remote document yet; the create call carries
	// the current local state when it confirms, and the next full load is
	// the backstop.
	if board.IsPlaceholderID(card.ID) {
		return nil
	}

	fields, err := store.Partial(applied)
	if err != nil {
		r.rollback(card.ID, snapshot)
		return fmt.Errorf("update card: %w", err)
	}
	if err := r.remote.Update(ctx, card.ID, fields); err != nil {
		r.rollback(card.ID, snapshot)
		r.notify(NoticeError, "Could not save your changes. They have been undone.")
		return fmt.Errorf("update card: %w", err)
	}

	r.writeCacheCurrent()
	return nil
}

// Move repositions a card. Local state tracks the pointer synchronously on
// every call; the remote write is debounced per card id.
func (r *Repository) Move(id string, pos board.Position) {
	r.deb.Schedule(id, pos)
}

// FlushMoves forces any pending debounced position writes to fire now.
func (r *Repository) FlushMoves() {
	r.deb.FlushAll()
}

// Delete removes a card locally and, when the store supports it, remotely.
// Deleting an unconfirmed card suppresses its pending create so the card
// cannot resurrect after confirmation.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	slot, ok := r.slotLocked(id)
	if !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	snapshot := r.cards[slot].Clone()
	r.removeLocked(id)
	r.deb.Cancel(id)

	if p, pending := r.pending[id]; pending {
		p.deleted = true
		r.broadcastLocked()
		r.mu.Unlock()
		return nil
	}
	r.broadcastLocked()
	r.mu.Unlock()

	del, ok := r.remote.(store.Deleter)
	if !ok {
		return nil
	}
	if err := del.Delete(ctx, id); err != nil {
		r.mu.Lock()
		r.restoreAtLocked(slot, snapshot)
		r.broadcastLocked()
		r.mu.Unlock()
		r.notify(NoticeError, "Could not delete the card.")
		return fmt.Errorf("delete card: %w", err)
	}
	r.writeCacheCurrent()
	return nil
}

// applyPosition is the debouncer's synchronous local apply. Returns false
// when the card no longer exists.
func (r *Repository) applyPosition(id string, pos board.Position) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	slot, ok := r.slotLocked(id)
	if !ok {
		return false
	}
	card := r.cards[slot]
	card.Position = pos
	r.cards[slot] = card
	r.broadcastLocked()
	return true
}

// sendPosition issues the debounced remote write. Failure is reported but
// the position is not rolled back: snapping a card back after the gesture
// ended is jarring, and the next full load corrects any drift.
func (r *Repository) sendPosition(id string, pos board.Position) {
	if board.IsPlaceholderID(id) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()
	if err := r.remote.Update(ctx, id, store.PositionPatch(pos)); err != nil {
		r.notify(NoticeError, "Could not save the card's new position.")
	}
}

// rollback restores a pre-mutation snapshot for id, if the card still exists.
func (r *Repository) rollback(id string, snapshot board.Card) {
	r.mu.Lock()
	if slot, ok := r.slotLocked(id); ok {
		r.cards[slot] = snapshot
	}
	r.broadcastLocked()
	r.mu.Unlock()
}

// mergeSnapshotLocked replaces local state with server ground truth,
// keeping cards whose creates are still in flight at the front.
func (r *Repository) mergeSnapshotLocked(server []board.Card) {
	merged := make([]board.Card, 0, len(server)+len(r.pending))
	seen := make(map[string]bool, len(server))
	for _, c := range r.cards {
		if _, pending := r.pending[c.ID]; pending {
			merged = append(merged, c)
			seen[c.ID] = true
		}
	}
	for _, c := range server {
		if seen[c.ID] {
			continue
		}
		merged = append(merged, c.Clone())
		seen[c.ID] = true
	}
	r.cards = merged
}

func (r *Repository) slotLocked(id string) (int, bool) {
	for i := range r.cards {
		if r.cards[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// restoreAtLocked reinserts a rolled-back card at its original slot so the
// board does not visibly reshuffle. The slot is clamped in case other
// mutations shrank the slice in the meantime.
func (r *Repository) restoreAtLocked(slot int, card board.Card) {
	if slot > len(r.cards) {
		slot = len(r.cards)
	}
	r.cards = append(r.cards, board.Card{})
	copy(r.cards[slot+1:], r.cards[slot:])
	r.cards[slot] = card
}

func (r *Repository) removeLocked(id string) {
	if slot, ok := r.slotLocked(id); ok {
		r.cards = append(r.cards[:slot], r.cards[slot+1:]...)
	}
}

func (r *Repository) confirmedLocked() []board.Card {
	out := make([]board.Card, 0, len(r.cards))
	for _, c := range r.cards {
		if board.IsPlaceholderID(c.ID) {
			continue
		}
		out = append(out, c.Clone())
	}
	return out
}

func (r *Repository) broadcastLocked() {
	r.snapshots.Broadcast(cloneCards(r.cards))
}

func (r *Repository) notify(level NoticeLevel, message string) {
	r.notices.Broadcast(Notice{Level: level, Message: message})
}

// deleteRemote best-effort removes a card that confirmed after a local
// delete. Stores without delete support rely on the next load instead.
func (r *Repository) deleteRemote(id string) {
	del, ok := r.remote.(store.Deleter)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.opTimeout)
	defer cancel()
	if err := del.Delete(ctx, id); err != nil {
		r.notify(NoticeError, "Could not delete the card from the board.")
	}
}

// warmStart seeds state from the local cache before the first remote load.
func (r *Repository) warmStart() {
	cards, err := r.cache.List()
	if err != nil || len(cards) == 0 {
		return
	}
	r.mu.Lock()
	r.cards = cards
	r.mu.Unlock()
}

func (r *Repository) writeCacheCurrent() {
	r.mu.Lock()
	snapshot := r.confirmedLocked()
	r.mu.Unlock()
	r.writeCache(snapshot)
}

func (r *Repository) writeCache(cards []board.Card) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Replace(cards); err != nil {
		r.notify(NoticeError, "Could not update the local board cache.")
	}
}

func cloneCards(cards []board.Card) []board.Card {
	out := make([]board.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}
