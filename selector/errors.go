package selector

import "github.com/pkg/errors"

// ErrDuplicatePeer is returned by Add when the peer id is already present.
var ErrDuplicatePeer = errors.New("peer already present")

// ErrInvalidScore is returned by Add and Rescore when score is zero.
var ErrInvalidScore = errors.New("score must be greater than zero")

// ErrOverflow is returned by Add and Rescore when the new slot would push
// slotCount past the 64-bit number line. State is left unchanged.
var ErrOverflow = errors.New("slot count overflow")
