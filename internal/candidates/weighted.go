// Package candidates provides a ranked preview of likely future
// selections: a read-only diagnostic over a peer weight snapshot, kept
// entirely separate from the core selector's fairness-critical Select
// path.
package candidates

import (
	"math"
	"math/rand"
	"sort"

	"github.com/voteweight/avalanche-selector/selector"
)

// Weighted is an item paired with its selection weight.
type Weighted[T any] interface {
	GetItem() T
	GetWeight() float64
}

// ScoredPeer adapts a selector.PeerScore into the Weighted[PeerId]
// interface so it can be passed to SampleWithoutReplacement.
type ScoredPeer struct {
	selector.PeerScore
}

var _ Weighted[selector.PeerId] = ScoredPeer{}

// GetItem implements Weighted[selector.PeerId].
func (p ScoredPeer) GetItem() selector.PeerId {
	return p.Peer
}

// GetWeight implements Weighted[selector.PeerId].
func (p ScoredPeer) GetWeight() float64 {
	return float64(p.Score)
}

type weightedSort[T any] struct {
	items   []T
	weights []float64
}

var _ sort.Interface = (*weightedSort[any])(nil)

// Len implements sort.Interface.
func (w weightedSort[T]) Len() int {
	return len(w.items)
}

// Less implements sort.Interface.
func (w weightedSort[T]) Less(i, j int) bool {
	return w.weights[i] >= w.weights[j]
}

// Swap implements sort.Interface.
func (w weightedSort[T]) Swap(i, j int) {
	w.items[i], w.items[j] = w.items[j], w.items[i]
	w.weights[i], w.weights[j] = w.weights[j], w.weights[i]
}

// SampleWithoutReplacementWithSource previews up to sampleSize items from
// a weighted population without replacement using a given random source,
// via the Efraimidis-Spirakis algorithm. It does not touch the selector
// and carries no fairness guarantee for production selection — it exists
// purely so an operator can ask "who is likely to come up soon" without
// perturbing Select's retry budget.
func SampleWithoutReplacementWithSource[T any, W Weighted[T]](
	items []W,
	sampleSize int,
	random *rand.Rand,
) []T {
	if sampleSize > len(items) {
		sampleSize = len(items)
	}

	ws := weightedSort[T]{
		items:   make([]T, len(items)),
		weights: make([]float64, len(items)),
	}
	for i, item := range items {
		ws.items[i] = item.GetItem()
		weight := item.GetWeight()
		if weight <= 0 {
			weight = math.SmallestNonzeroFloat64
		}
		ws.weights[i] = math.Pow(random.Float64(), 1.0/weight)
	}
	sort.Sort(ws)
	return ws.items[:sampleSize]
}

// SampleWithoutReplacement previews sampleSize peers weighted by score
// using a fresh, non-cryptographic random source. Intended for
// diagnostics and operator tooling only.
func SampleWithoutReplacement(scores []selector.PeerScore, sampleSize int) []selector.PeerId {
	items := make([]ScoredPeer, len(scores))
	for i, ps := range scores {
		items[i] = ScoredPeer{ps}
	}
	return SampleWithoutReplacementWithSource[selector.PeerId, ScoredPeer](
		items,
		sampleSize,
		rand.New(rand.NewSource(rand.Int63())),
	)
}
