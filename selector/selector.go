package selector

// Selector holds the Slot Array, Peer Index, and fragmentation counter
// described in spec.md §3. It is single-writer, single-reader from its own
// perspective (spec.md §5): callers must serialize Add/Remove/Rescore/
// Select/Compact/Verify themselves, typically via host.Host.
type Selector struct {
	slots     []slot
	index     map[PeerId]int
	slotCount uint64
	// fragSigned is the fragmentation counter, kept in signed arithmetic
	// (Fragmentation exposes it as uint64), since an interior-fits-in-place
	// rescore that grows a
	// peer's score back into a gap it previously vacated legitimately
	// produces a negative per-call delta. See SPEC_FULL.md's Open
	// Questions section.
	fragSigned int64
	source     Source
}

// New returns an empty Selector using src as its entropy source. Pass
// CryptoSource{} in production; tests may inject a deterministic Source.
func New(src Source) *Selector {
	return &Selector{
		index:  make(map[PeerId]int),
		source: src,
	}
}

// SlotCount returns the exclusive upper bound of the selection domain.
func (s *Selector) SlotCount() uint64 {
	return s.slotCount
}

// Fragmentation returns the arithmetic space wasted by tombstones and
// shrink-deltas. Informational only; the host decides when this warrants
// a Compact.
func (s *Selector) Fragmentation() uint64 {
	if s.fragSigned < 0 {
		// Unreachable under correct bookkeeping; Verify treats this as a
		// fatal invariant violation. Reported as 0 here rather than
		// wrapping, so a caller that skips Verify doesn't see garbage.
		return 0
	}
	return uint64(s.fragSigned)
}

// PeerCount returns the number of live peers currently indexed.
func (s *Selector) PeerCount() int {
	return len(s.index)
}

// Add appends a new slot for p with the given score and indexes it.
// Constant time; p becomes immediately eligible for Select.
func (s *Selector) Add(p PeerId, score uint32) (PeerId, error) {
	if p == NoPeer {
		return NoPeer, ErrDuplicatePeer
	}
	if score == 0 {
		return NoPeer, ErrInvalidScore
	}
	if _, ok := s.index[p]; ok {
		return NoPeer, ErrDuplicatePeer
	}
	newCount := s.slotCount + uint64(score)
	if newCount < s.slotCount {
		return NoPeer, ErrOverflow
	}

	s.slots = append(s.slots, slot{start: s.slotCount, score: score, peer: p})
	s.index[p] = len(s.slots) - 1
	s.slotCount = newCount
	return p, nil
}

// Remove erases p's slot. If p occupies the last slot the array shrinks;
// otherwise the slot is tombstoned in place and its score is added to
// fragmentation. Returns false if p was not present.
func (s *Selector) Remove(p PeerId) bool {
	i, ok := s.index[p]
	if !ok {
		return false
	}
	delete(s.index, p)

	if i == len(s.slots)-1 {
		s.slots = s.slots[:i]
		s.slotCount = s.tailStop()
		return true
	}

	waste := s.slots[i].score
	s.slots[i].peer = NoPeer
	s.fragSigned += int64(waste)
	return true
}

// Rescore changes p's weight. It takes the fast last-slot path when
// possible, rewrites the slot in place (growing or shrinking it) when the
// new interval still fits before the
// next slot, and otherwise relocates p to a fresh tail slot, tombstoning
// the old one. Returns false if p was not present.
func (s *Selector) Rescore(p PeerId, score uint32) (bool, error) {
	i, ok := s.index[p]
	if !ok {
		return false, nil
	}
	if score == 0 {
		return false, ErrInvalidScore
	}

	cur := s.slots[i]
	start := cur.start

	if i == len(s.slots)-1 {
		newStop := start + uint64(score)
		if newStop < start {
			return false, ErrOverflow
		}
		s.slots[i] = slot{start: start, score: score, peer: p}
		s.slotCount = newStop
		return true, nil
	}

	nextStart := s.slots[i+1].start
	if start+uint64(score) <= nextStart {
		s.slots[i] = slot{start: start, score: score, peer: p}
		s.fragSigned += int64(cur.stop()) - int64(start+uint64(score))
		return true, nil
	}

	newCount := s.slotCount + uint64(score)
	if newCount < s.slotCount {
		return false, ErrOverflow
	}

	s.slots[i].peer = NoPeer
	s.fragSigned += int64(cur.score)

	s.slots = append(s.slots, slot{start: s.slotCount, score: score, peer: p})
	s.index[p] = len(s.slots) - 1
	s.slotCount = newCount
	return true, nil
}

// Select draws a point uniformly in [0, slotCount) and resolves it to a
// live peer, making up to maxRetry draws in all while each lands on a
// tombstone or gap. Returns NoPeer if the array is empty, slotCount is 0,
// or every attempt missed.
func (s *Selector) Select() PeerId {
	p, _ := s.SelectWithRetries()
	return p
}

// SelectWithRetries behaves exactly like Select but also reports how many
// retries were consumed before it returned (0 if the first draw hit, up
// to maxRetry if every attempt missed). Exists so callers that report
// metrics — host.Host, in turn the HTTP API — can observe retry pressure
// without the core's fairness-critical Select signature taking on a
// metrics concern itself.
func (s *Selector) SelectWithRetries() (PeerId, int) {
	if len(s.slots) == 0 || s.slotCount == 0 {
		return NoPeer, 0
	}
	for attempt := 0; attempt < maxRetry; attempt++ {
		x := s.source.Uint64(s.slotCount)
		if p := s.probe(x); p != NoPeer {
			return p, attempt
		}
	}
	return NoPeer, maxRetry
}

// Compact trims dead slots from the tail, then sweeps forward packing
// every live slot to a contiguous prefix starting at 0, replacing each
// tombstone encountered with the current tail slot. Returns the number of
// arithmetic units reclaimed and resets fragmentation to 0.
func (s *Selector) Compact() uint64 {
	before := s.slotCount
	s.trimDeadTail()

	var prevStop uint64
	for i := 0; i < len(s.slots); {
		if s.slots[i].live() {
			moved := s.slots[i].peer
			s.slots[i] = slot{start: prevStop, score: s.slots[i].score, peer: moved}
			s.index[moved] = i
			prevStop = s.slots[i].stop()
			i++
			continue
		}

		last := s.slots[len(s.slots)-1]
		movedPeer := last.peer
		s.slots[i] = slot{start: prevStop, score: last.score, peer: movedPeer}
		s.index[movedPeer] = i
		prevStop = s.slots[i].stop()
		s.slots = s.slots[:len(s.slots)-1]
		s.trimDeadTail()
		i++
	}

	s.slotCount = prevStop
	s.fragSigned = 0
	return before - prevStop
}

// Snapshot returns every live peer and its current score. O(n); intended
// for diagnostics, not the hot selection path.
func (s *Selector) Snapshot() []PeerScore {
	out := make([]PeerScore, 0, len(s.index))
	for _, sl := range s.slots {
		if sl.live() {
			out = append(out, PeerScore{Peer: sl.peer, Score: sl.score})
		}
	}
	return out
}

// Verify walks the Slot Array and Peer Index checking every invariant in
// spec.md §3 and §8. Intended for tests and debug builds, not the hot
// path.
func (s *Selector) Verify() bool {
	if s.fragSigned < 0 {
		return false
	}

	if len(s.slots) == 0 {
		return s.slotCount == 0 && len(s.index) == 0
	}

	if s.slots[0].start != 0 {
		return false
	}
	if s.slotCount != s.slots[len(s.slots)-1].stop() {
		return false
	}

	seen := make(map[PeerId]int, len(s.index))
	for i, sl := range s.slots {
		if i > 0 && s.slots[i-1].stop() > sl.start {
			return false
		}
		if sl.live() {
			if sl.peer == NoPeer {
				return false
			}
			if _, dup := seen[sl.peer]; dup {
				return false
			}
			seen[sl.peer] = i
		}
	}

	if len(seen) != len(s.index) {
		return false
	}
	for p, i := range s.index {
		if i < 0 || i >= len(s.slots) {
			return false
		}
		if s.slots[i].peer != p {
			return false
		}
	}
	for p, i := range seen {
		if idx, ok := s.index[p]; !ok || idx != i {
			return false
		}
	}
	return true
}

// trimDeadTail pops tombstoned slots off the back of the array. It does
// not touch slotCount; its caller, Compact, recomputes that itself. Remove
// does not call it: it pops only the removed slot.
func (s *Selector) trimDeadTail() {
	for len(s.slots) > 0 && !s.slots[len(s.slots)-1].live() {
		s.slots = s.slots[:len(s.slots)-1]
	}
}

// tailStop returns the stop of the current last slot, or 0 if empty.
func (s *Selector) tailStop() uint64 {
	if len(s.slots) == 0 {
		return 0
	}
	return s.slots[len(s.slots)-1].stop()
}
