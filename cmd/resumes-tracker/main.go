package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-ayodele/resume-tracker/internal/async"
	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/export"
	"github.com/joseph-ayodele/resume-tracker/internal/ingest"
	"github.com/joseph-ayodele/resume-tracker/internal/pipeline"
	repo "github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/server"
)

func main() {
	logger := common.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		os.Exit(1)
	}
	defer server.CloseDB(db, logger)
	if err := server.PingDB(ctx, db, logger, 5*time.Second); err != nil {
		os.Exit(1)
	}

	proc, err := pipeline.FromConfig(cfg, logger, pipeline.BuildOptions{})
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(2)
	}

	candidatesRepo := repo.NewCandidateRepository(db, logger)
	jobsRepo := repo.NewExtractJobRepository(db, logger)
	tracker := pipeline.NewTracker(proc, candidatesRepo, jobsRepo, logger)

	queue := async.NewProcessorQueue(tracker, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.DocTimeout+30*time.Second),
	)
	ingestor := ingest.NewFSIngestor(jobsRepo, queue, logger)

	if dir := cfg.Ingest.WatchDir; dir != "" {
		go func() {
			err := ingest.Watch(ctx, ingest.WatchConfig{
				Roots:       []string{dir},
				Recursive:   cfg.Ingest.Recursive,
				InitialScan: true,
				Debounce:    cfg.Ingest.Debounce,
				Logger:      logger,
			}, ingestor)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "dir", dir, "error", err)
			}
		}()
		logger.Info("watching directory", "dir", dir, "recursive", cfg.Ingest.Recursive)
	}

	svc := server.NewResumeServer(proc, candidatesRepo, export.NewService(candidatesRepo, logger), ingestor, logger)
	grpcServer, healthServer := server.NewGRPCServer(svc, logger)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	logger.Info("resumes-tracker listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.Shutdown()
	grpcServer.GracefulStop()

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.DocTimeout+30*time.Second)
	defer cancel()
	queue.Shutdown(drainCtx)
}
