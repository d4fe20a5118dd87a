// ABOUTME: Keyed debounce table coalescing drag position updates into one remote write per quiescent period.
// ABOUTME: Local state tracks every call synchronously; only the timer's last scheduled position is sent.
package repo

import (
	"sync"
	"time"

	"github.com/2389-research/wishweaver/board"
)

// defaultDebounceDelay is the quiescence window after the last Move before
// the remote write fires.
const defaultDebounceDelay = 500 * time.Millisecond

// pendingMove is one armed timer with the last scheduled position for a card.
type pendingMove struct {
	pos   board.Position
	timer *time.Timer
}

// Debouncer coalesces high-frequency position updates per card id. A drag
// gesture can emit dozens of updates per second; without coalescing every
// pixel of movement would become a remote write.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingMove

	// apply updates local state synchronously; returns false when the card
	// no longer exists, in which case no timer is armed.
	apply func(id string, pos board.Position) bool
	// send issues the remote write once the timer fires unchallenged.
	send func(id string, pos board.Position)
}

func newDebouncer(delay time.Duration, apply func(string, board.Position) bool, send func(string, board.Position)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pendingMove),
		apply:   apply,
		send:    send,
	}
}

// Schedule applies the position locally right away, then arms or re-arms the
// card's timer. Re-arming replaces the previous timer, so exactly one write
// fires per quiescent period per id, carrying the last scheduled position.
func (d *Debouncer) Schedule(id string, pos board.Position) {
	if !d.apply(id, pos) {
		d.Cancel(id)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.pending[id]; ok {
		prev.timer.Stop()
	}
	p := &pendingMove{pos: pos}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(id, p) })
	d.pending[id] = p
}

// fire sends the write unless this timer was replaced or cancelled after it
// was armed. Stop cannot always win the race against an already-running
// AfterFunc goroutine, so the table entry is the source of truth.
func (d *Debouncer) fire(id string, p *pendingMove) {
	d.mu.Lock()
	current, ok := d.pending[id]
	if !ok || current != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, id)
	d.mu.Unlock()

	d.send(id, p.pos)
}

// Rekey moves a card's pending write to a new id and re-arms its timer.
// Needed when a placeholder id is confirmed while a move is still pending:
// the write must fire under the server-assigned id or it would be dropped.
func (d *Debouncer) Rekey(oldID, newID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, ok := d.pending[oldID]
	if !ok {
		return
	}
	prev.timer.Stop()
	delete(d.pending, oldID)

	if cur, exists := d.pending[newID]; exists {
		cur.timer.Stop()
	}
	p := &pendingMove{pos: prev.pos}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(newID, p) })
	d.pending[newID] = p
}

// Cancel discards any pending write for the card. A cancelled timer never
// sends.
func (d *Debouncer) Cancel(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[id]; ok {
		p.timer.Stop()
		delete(d.pending, id)
	}
}

// CancelAll discards every pending write. Used at teardown.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, id)
	}
}

// Flush fires the card's pending write immediately, if any.
func (d *Debouncer) Flush(id string) {
	d.mu.Lock()
	p, ok := d.pending[id]
	if !ok {
		d.mu.Unlock()
		return
	}
	p.timer.Stop()
	delete(d.pending, id)
	d.mu.Unlock()

	d.send(id, p.pos)
}

// FlushAll fires every pending write immediately.
func (d *Debouncer) FlushAll() {
	d.mu.Lock()
	flushed := make(map[string]board.Position, len(d.pending))
	for id, p := range d.pending {
		p.timer.Stop()
		flushed[id] = p.pos
		delete(d.pending, id)
	}
	d.mu.Unlock()

	for id, pos := range flushed {
		d.send(id, pos)
	}
}
