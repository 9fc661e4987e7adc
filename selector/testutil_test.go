package selector_test

import "github.com/voteweight/avalanche-selector/selector"

// scriptedSource returns a fixed queue of draws, one per Select attempt
// (a Select call that misses takes more than one), for
// deterministic reproduction of spec.md's §8 worked scenarios. It panics
// if asked for more draws than were scripted, which would indicate a test
// bug rather than a runtime condition.
type scriptedSource struct {
	draws []uint64
	pos   int
}

func scripted(draws ...uint64) *scriptedSource {
	return &scriptedSource{draws: draws}
}

func (s *scriptedSource) Uint64(bound uint64) uint64 {
	if s.pos >= len(s.draws) {
		panic("scriptedSource: out of draws")
	}
	x := s.draws[s.pos]
	s.pos++
	if x >= bound {
		panic("scriptedSource: draw out of bound")
	}
	return x
}

var _ selector.Source = (*scriptedSource)(nil)
