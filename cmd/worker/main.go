package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-blog-summarizer-be/internal/bootstrap"
	"ai-blog-summarizer-be/internal/config"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/tracer"
)

// Standalone job worker. It shares the NATS job stream and the Redis job
// records with the REST process.
func main() {
	shutdownTracer := tracer.InitTracer(tracer.DefaultServiceName + "-worker")
	defer shutdownTracer(context.Background())

	cfg := config.Load()
	if cfg.Summarizer.QueueBackend != "nats" {
		log.Printf("[WARN] QUEUE_BACKEND=%q; a standalone worker only makes sense with nats, forcing it", cfg.Summarizer.QueueBackend)
		cfg.Summarizer.QueueBackend = "nats"
	}

	sysLogger := logger.NewZapLogger(cfg.App.WorkerLogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.NewContainer(ctx, nil, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Unable to bootstrap worker: %v", err)
	}
	defer container.Close()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Unable to start job workers: %v", err)
	}
	log.Printf("✅ Worker running with %d goroutines", cfg.Summarizer.Workers)

	<-ctx.Done()
	log.Println("Draining workers...")
	container.ConsumerService.Wait()
}
