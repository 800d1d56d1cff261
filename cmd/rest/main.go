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
	"ai-blog-summarizer-be/internal/server"
	"ai-blog-summarizer-be/internal/tracer"
	"ai-blog-summarizer-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(tracer.DefaultServiceName)
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database (documents and search need it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("[WARN] DB_CONNECTION_STRING not set, document endpoints disabled")
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to bootstrap container: %v", err)
	}
	defer container.Close()

	// 4. Start workers before serving so no job is published without a subscriber
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start job workers: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	stop()
	container.ConsumerService.Wait()
}
