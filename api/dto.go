package api

import "github.com/voteweight/avalanche-selector/selector"

// addPeerReq is the body of POST /peers.
type addPeerReq struct {
	Peer  uint32 `json:"peer"`
	Score uint32 `json:"score"`
}

// rescorePeerReq is the body of POST /peers/:id/rescore.
type rescorePeerReq struct {
	Score uint32 `json:"score"`
}

// peerResp mirrors selector.PeerScore over the wire.
type peerResp struct {
	Peer  uint32 `json:"peer"`
	Score uint32 `json:"score"`
}

func toPeerResp(ps selector.PeerScore) peerResp {
	return peerResp{Peer: uint32(ps.Peer), Score: ps.Score}
}

// selectResp is the body of the POST /select response. Peer is left at its
// zero value when the draw exhausted its retries; Hit reports whether
// a peer was actually found, since 0 is itself a valid PeerId.
type selectResp struct {
	Peer uint32 `json:"peer"`
	Hit  bool   `json:"hit"`
}

type compactResp struct {
	Reclaimed uint64 `json:"reclaimed"`
}

type verifyResp struct {
	Ok bool `json:"ok"`
}

type statusResp struct {
	SlotCount          uint64  `json:"slotCount"`
	Fragmentation      uint64  `json:"fragmentation"`
	FragmentationRatio float64 `json:"fragmentationRatio"`
	PeerCount          int     `json:"peerCount"`
}
