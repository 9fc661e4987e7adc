// Package selector implements the weighted random peer selector: a
// contiguous number line partitioned into per-peer intervals, a tombstone
// deletion scheme with deferred compaction, and an interpolation-search
// query that resolves a uniform draw to a peer.
package selector

// PeerId is an opaque identity handed in by the host. It carries no
// meaning to the selector beyond equality.
type PeerId uint32

// NoPeer is the sentinel reserved to mark tombstoned slots and to signal
// that selection found no live peer. Callers must never pass it to Add.
const NoPeer PeerId = 0xFFFFFFFF

const (
	// maxRetry bounds how many draws Select makes in all, resampling
	// after each one that lands on a tombstone or a gap, before giving up.
	maxRetry = 3

	// linearScanThreshold is the window size below which interpolation
	// search falls back to a linear scan.
	linearScanThreshold = 8
)

// PeerScore is a read-only view of a live peer's current weight, returned
// by Snapshot for diagnostics. It is not part of the hot selection path.
type PeerScore struct {
	Peer  PeerId
	Score uint32
}
