// Package api exposes host.Host over HTTP, in the same gin + gzip shape
// as the teacher node's gin_svr.go, trading the teacher's task-queue
// routes for the selector's add/remove/rescore/select/compact/verify
// operations.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voteweight/avalanche-selector/host"
	"github.com/voteweight/avalanche-selector/internal/candidates"
	"github.com/voteweight/avalanche-selector/internal/ratelimit"
	"github.com/voteweight/avalanche-selector/metrics"
	"github.com/voteweight/avalanche-selector/selector"
)

const instanceLabel = "selectord"

// Server wires a host.Host, an optional caller rate limiter, and a
// candidate preview size into a gin.Engine.
type Server struct {
	Engine *gin.Engine

	host         *host.Host
	limiter      *ratelimit.Limiter
	previewCount int
	logger       *zap.Logger
}

// New builds a Server. limiter may be nil to disable the caller budget
// check (used by tests exercising routes directly).
func New(h *host.Host, limiter *ratelimit.Limiter, previewCount int, logger *zap.Logger) *Server {
	s := &Server{
		host:         h,
		limiter:      limiter,
		previewCount: previewCount,
		logger:       logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(requestIDMiddleware())
	engine.Use(s.metricsMiddleware())

	engine.POST("/peers", s.addPeer)
	engine.DELETE("/peers/:id", s.removePeer)
	engine.POST("/peers/:id/rescore", s.rescorePeer)
	engine.GET("/peers", s.listPeers)
	engine.GET("/peers/candidates", s.previewCandidates)
	engine.POST("/select", s.selectPeer)
	engine.POST("/compact", s.compact)
	engine.GET("/verify", s.verify)
	engine.GET("/status", s.status)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Engine = engine
	return s
}

// Run blocks serving on addr.
func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}

// requestIDMiddleware stamps every response with a unique request id, in
// the same spirit as the teacher's ack-flag on task responses — a value
// an operator can grep logs for without the client having to invent one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestCount.With("instance", instanceLabel, "method", c.Request.Method,
			"route", route, "code", strconv.Itoa(c.Writer.Status())).Add(1)
		metrics.RequestDuration.With("instance", instanceLabel, "method", c.Request.Method,
			"route", route).Observe(time.Since(start).Seconds())
	}
}

// checkCaller applies the rate limiter against the X-Caller-Peer header,
// when both a limiter and a header are present. A missing header is not
// rejected: unauthenticated callers (spec.md Non-goals — no peer
// identity authentication at this layer) fall outside the budget rather
// than being blocked by its absence.
func (s *Server) checkCaller(c *gin.Context) bool {
	if s.limiter == nil {
		return true
	}
	raw := c.GetHeader("X-Caller-Peer")
	if raw == "" {
		return true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid X-Caller-Peer header"})
		return false
	}
	if err := s.limiter.Allow(selector.PeerId(id)); err != nil {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (s *Server) addPeer(c *gin.Context) {
	if !s.checkCaller(c) {
		return
	}
	var req addPeerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.host.Add(selector.PeerId(req.Peer), req.Score)
	if err != nil {
		s.logger.Debug("add peer rejected", zap.Uint32("peer", req.Peer), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, peerResp{Peer: uint32(id), Score: req.Score})
}

func (s *Server) removePeer(c *gin.Context) {
	if !s.checkCaller(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}
	ok := s.host.Remove(selector.PeerId(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown peer"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) rescorePeer(c *gin.Context) {
	if !s.checkCaller(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
		return
	}
	var req rescorePeerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err := s.host.Rescore(selector.PeerId(id), req.Score)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown peer"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listPeers(c *gin.Context) {
	snap := s.host.Snapshot()
	resp := make([]peerResp, 0, len(snap))
	for _, ps := range snap {
		resp = append(resp, toPeerResp(ps))
	}
	c.JSON(http.StatusOK, resp)
}

// previewCandidates exposes internal/candidates' diagnostic weighted
// sample. It is advisory only, per spec.md §7: it must never be used as
// a substitute for Select's fairness-critical draw.
func (s *Server) previewCandidates(c *gin.Context) {
	snap := s.host.Snapshot()
	n := s.previewCount
	if qs := c.Query("n"); qs != "" {
		if parsed, err := strconv.Atoi(qs); err == nil && parsed > 0 {
			n = parsed
		}
	}
	scoreByPeer := make(map[selector.PeerId]uint32, len(snap))
	for _, ps := range snap {
		scoreByPeer[ps.Peer] = ps.Score
	}
	picked := candidates.SampleWithoutReplacement(snap, n)
	resp := make([]peerResp, 0, len(picked))
	for _, id := range picked {
		resp = append(resp, peerResp{Peer: uint32(id), Score: scoreByPeer[id]})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) selectPeer(c *gin.Context) {
	if !s.checkCaller(c) {
		return
	}
	id, retries := s.host.SelectWithRetries()
	metrics.SelectRetries.With("instance", instanceLabel).Observe(float64(retries))
	if id == selector.NoPeer {
		metrics.SelectMisses.With("instance", instanceLabel).Add(1)
		c.JSON(http.StatusOK, selectResp{Hit: false})
		return
	}
	c.JSON(http.StatusOK, selectResp{Peer: uint32(id), Hit: true})
}

func (s *Server) compact(c *gin.Context) {
	reclaimed := s.host.Compact()
	metrics.CompactReclaimed.With("instance", instanceLabel).Observe(float64(reclaimed))
	c.JSON(http.StatusOK, compactResp{Reclaimed: reclaimed})
}

func (s *Server) verify(c *gin.Context) {
	c.JSON(http.StatusOK, verifyResp{Ok: s.host.Verify()})
}

func (s *Server) status(c *gin.Context) {
	slotCount := s.host.SlotCount()
	frag := s.host.Fragmentation()
	ratio := s.host.FragmentationRatio()
	peerCount := s.host.PeerCount()

	metrics.SlotCount.With("instance", instanceLabel).Set(float64(slotCount))
	metrics.Fragmentation.With("instance", instanceLabel).Set(float64(frag))
	metrics.FragmentationRatio.With("instance", instanceLabel).Set(ratio)
	metrics.PeerCount.With("instance", instanceLabel).Set(float64(peerCount))

	c.JSON(http.StatusOK, statusResp{
		SlotCount:          slotCount,
		Fragmentation:      frag,
		FragmentationRatio: ratio,
		PeerCount:          peerCount,
	})
}
