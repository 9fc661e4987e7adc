package selector

// slot is an immutable-by-convention triple (start, score, peer). stop is
// derived, not stored, since it is always start+score and storing it would
// let the two drift apart under editing mistakes.
type slot struct {
	start uint64
	score uint32
	peer  PeerId
}

// stop returns the exclusive upper bound of the slot's interval.
func (s slot) stop() uint64 {
	return s.start + uint64(s.score)
}

// contains reports whether x falls inside [start, stop).
func (s slot) contains(x uint64) bool {
	return s.start <= x && x < s.stop()
}

// precedes reports whether x is at or past the slot's stop, i.e. the
// search must move forward past this slot to find x.
func (s slot) precedes(x uint64) bool {
	return s.stop() <= x
}

// follows reports whether x is strictly before the slot's start, i.e. the
// search must move backward to find x.
func (s slot) follows(x uint64) bool {
	return x < s.start
}

// live reports whether the slot is owned by a real peer rather than being
// a tombstone.
func (s slot) live() bool {
	return s.peer != NoPeer
}
