// Package host serializes access to a selector.Selector, per spec.md §5:
// the selector is single-writer/single-reader from its own perspective,
// and something above it must confine every call to one owning lock.
// Host is that something, and is the type every other component (the
// HTTP API, the CLI, the fragmentation monitor) goes through.
package host

import (
	"strconv"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/voteweight/avalanche-selector/selector"
)

// Host wraps a *selector.Selector with the single mutex that makes every
// exported method safe to call from multiple goroutines, and maintains a
// best-effort snapshot cache so read-mostly callers (the HTTP "list
// peers" route) don't contend with mutators for the lock on every call.
type Host struct {
	mu     sync.Mutex
	sel    *selector.Selector
	logger *zap.Logger

	// snapshot caches the last-known peer scores, refreshed by every
	// mutation and by the fragmentation monitor, so concurrent readers
	// can observe a recent-enough view without taking mu.
	snapshot cmap.ConcurrentMap[string, selector.PeerScore]
}

// New returns a Host wrapping sel, logging through logger.
func New(sel *selector.Selector, logger *zap.Logger) *Host {
	return &Host{
		sel:      sel,
		logger:   logger,
		snapshot: cmap.New[selector.PeerScore](),
	}
}

// Add adds a peer, serialized against every other Host call.
func (h *Host) Add(p selector.PeerId, score uint32) (selector.PeerId, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, err := h.sel.Add(p, score)
	if err != nil {
		return selector.NoPeer, errors.Wrap(err, "add peer")
	}
	h.refreshSnapshotLocked()
	h.logger.Debug("peer added", zap.Uint32("peer", uint32(p)), zap.Uint32("score", score))
	return id, nil
}

// Remove removes a peer, serialized against every other Host call.
func (h *Host) Remove(p selector.PeerId) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok := h.sel.Remove(p)
	if ok {
		h.refreshSnapshotLocked()
		h.logger.Debug("peer removed", zap.Uint32("peer", uint32(p)))
	}
	return ok
}

// Rescore changes a peer's weight, serialized against every other Host
// call.
func (h *Host) Rescore(p selector.PeerId, score uint32) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok, err := h.sel.Rescore(p, score)
	if err != nil {
		return false, errors.Wrap(err, "rescore peer")
	}
	if ok {
		h.refreshSnapshotLocked()
		h.logger.Debug("peer rescored", zap.Uint32("peer", uint32(p)), zap.Uint32("score", score))
	}
	return ok, nil
}

// Select draws a peer. It still takes the Host's lock — spec.md §5
// explicitly allows the host to serialize Select behind the same lock as
// the mutators, rather than promoting it to a reader in a
// readers-writer split, since a single call is already bounded
// O(log n + K).
func (h *Host) Select() selector.PeerId {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.Select()
}

// SelectWithRetries behaves like Select but also reports the number of
// retries the draw consumed, for callers that report that as a metric.
func (h *Host) SelectWithRetries() (selector.PeerId, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.SelectWithRetries()
}

// Compact reclaims tombstoned space, serialized against every other Host
// call.
func (h *Host) Compact() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	reclaimed := h.sel.Compact()
	h.refreshSnapshotLocked()
	if reclaimed > 0 {
		h.logger.Info("compacted", zap.Uint64("reclaimed", reclaimed))
	}
	return reclaimed
}

// Verify walks every invariant in spec.md §3 and §8. Intended for tests
// and operator diagnostics, not the hot path.
func (h *Host) Verify() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.Verify()
}

// SlotCount returns the exclusive upper bound of the selection domain.
func (h *Host) SlotCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.SlotCount()
}

// Fragmentation returns the arithmetic space currently wasted.
func (h *Host) Fragmentation() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.Fragmentation()
}

// FragmentationRatio returns fragmentation as a fraction of slotCount, or
// 0 if the domain is empty.
func (h *Host) FragmentationRatio() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sel.SlotCount() == 0 {
		return 0
	}
	return float64(h.sel.Fragmentation()) / float64(h.sel.SlotCount())
}

// PeerCount returns the number of live peers.
func (h *Host) PeerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel.PeerCount()
}

// Snapshot returns the cached peer scores without taking the selector's
// lock, trading a little staleness for read concurrency.
func (h *Host) Snapshot() []selector.PeerScore {
	out := make([]selector.PeerScore, 0, h.snapshot.Count())
	for _, ps := range h.snapshot.Items() {
		out = append(out, ps)
	}
	return out
}

// refreshSnapshotLocked rebuilds the snapshot cache in place. Callers
// must already hold h.mu. It mutates the existing cmap rather than
// swapping h.snapshot for a new one: Snapshot reads h.snapshot without
// taking h.mu, so reassigning the field itself would race against that
// lock-free read even though every per-key cmap operation is safe on its
// own.
func (h *Host) refreshSnapshotLocked() {
	fresh := h.sel.Snapshot()

	keep := make(map[string]struct{}, len(fresh))
	for _, ps := range fresh {
		key := peerKey(ps.Peer)
		keep[key] = struct{}{}
		h.snapshot.Set(key, ps)
	}

	for _, key := range h.snapshot.Keys() {
		if _, ok := keep[key]; !ok {
			h.snapshot.Remove(key)
		}
	}
}

func peerKey(p selector.PeerId) string {
	return strconv.FormatUint(uint64(p), 10)
}
