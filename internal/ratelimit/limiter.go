// Package ratelimit caps how many distinct callers may reach the
// selector's host-facing entry points within a sliding window. It does not
// limit how often a caller already admitted in the window may call.
package ratelimit

import (
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/voteweight/avalanche-selector/selector"
)

// Limiter is a sliding-window cap on the number of distinct callers seen
// within windowSize, keyed by the spec's native peer id rather than a
// libp2p peer.ID.
type Limiter struct {
	mu         sync.RWMutex
	clients    map[selector.PeerId]time.Time
	maxTokens  int
	windowSize time.Duration
}

// New returns a Limiter allowing up to maxTokens distinct callers per
// windowSize.
func New(maxTokens int, windowSize time.Duration) *Limiter {
	return &Limiter{
		clients:    make(map[selector.PeerId]time.Time),
		maxTokens:  maxTokens,
		windowSize: windowSize,
	}
}

// Allow records a call from peerId and returns a gRPC ResourceExhausted
// error if the caller budget for this window has been spent.
func (rl *Limiter) Allow(peerId selector.PeerId) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.windowSize)

	for id, seen := range rl.clients {
		if seen.Before(windowStart) {
			delete(rl.clients, id)
		}
	}

	if _, exists := rl.clients[peerId]; !exists {
		if len(rl.clients) >= rl.maxTokens {
			return status.Errorf(codes.ResourceExhausted,
				"maximum number of unique callers (%d) reached", rl.maxTokens)
		}
	}

	rl.clients[peerId] = now
	return nil
}
