// selectord is the daemon entrypoint: it loads configuration, builds the
// selector/host pair, starts the background fragmentation monitor, and
// serves both the gRPC health surface and the HTTP API, shutting down
// cleanly on SIGINT/SIGTERM. The overall shape follows the teacher
// node's main.go flag-and-serve structure, trading the mining worker
// loop for a long-running server loop.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/voteweight/avalanche-selector/api"
	"github.com/voteweight/avalanche-selector/config"
	"github.com/voteweight/avalanche-selector/host"
	"github.com/voteweight/avalanche-selector/internal/fragmentation"
	"github.com/voteweight/avalanche-selector/internal/ratelimit"
	"github.com/voteweight/avalanche-selector/selector"
)

var configPath = flag.String("config", "", "path to a selectord yaml config file")

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	sel := selector.New(selector.CryptoSource{})
	h := host.New(sel, logger)
	limiter := ratelimit.New(cfg.RateLimit.MaxCallers, cfg.RateLimit.Window)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fragmentation.Monitor(ctx, logger, h, cfg.Compaction.Period, cfg.Compaction.Threshold)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCListenAddr)
	if err != nil {
		logger.Fatal("grpc listen", zap.Error(err))
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve error", zap.Error(err))
		}
	}()

	httpServer := api.New(h, limiter, cfg.CandidatePreviewCount, logger)
	go func() {
		if err := httpServer.Run(cfg.HTTPListenAddr); err != nil {
			logger.Error("http serve error", zap.Error(err))
		}
	}()

	logger.Info("selectord started",
		zap.String("grpc", cfg.GRPCListenAddr),
		zap.String("http", cfg.HTTPListenAddr),
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	cancel()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		grpcServer.Stop()
	}
}
