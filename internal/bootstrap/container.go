package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ai-blog-summarizer-be/internal/config"
	"ai-blog-summarizer-be/internal/controller"
	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/internal/repository/implementation"
	"ai-blog-summarizer-be/internal/service"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/embedding"
	"ai-blog-summarizer-be/pkg/llm"
	"ai-blog-summarizer-be/pkg/llm/factory"
	pktNats "ai-blog-summarizer-be/pkg/nats"
	"ai-blog-summarizer-be/pkg/queue"
	"ai-blog-summarizer-be/pkg/summarizer"
	"ai-blog-summarizer-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SummaryController  controller.ISummaryController
	DocumentController controller.IDocumentController // nil without a database

	// Services
	SummarizationService service.ISummarizationService
	DocumentService      service.IDocumentService // nil without a database
	SearchService        service.ISearchService   // nil without a database

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Pipeline  *summarizer.Pipeline
	Embedder  *embedding.Generator
	SysLogger logger.ILogger

	closers []func() error
}

// NewContainer wires every component from configuration. db may be nil, in
// which case the document and search features are left out.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{SysLogger: sysLogger}

	// 1. Storage
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, store.Close)

	// Caches may miss; job records may not, so they use the raw store.
	cacheStore := cache.NewFailSafeStore(store, sysLogger)
	jobRepo := implementation.NewJobRepository(store, cfg.Summarizer.CacheTTL)

	// 2. AI Providers
	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		GroqAPIKey:    cfg.Ai.GroqAPIKey,
		GroqBaseURL:   cfg.Ai.GroqBaseURL,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingProvider := newEmbeddingProvider(cfg, llmProvider)
	c.Embedder = embedding.NewGenerator(embeddingProvider, cacheStore, sysLogger,
		embedding.WithDimension(cfg.Ai.EmbeddingDimension),
		embedding.WithCacheTTL(cfg.Summarizer.CacheTTL),
	)

	// 3. Summarization Pipeline
	semantic := cache.NewSemanticCache(cacheStore, cfg.Summarizer.SemanticThreshold, cfg.Summarizer.CacheTTL, sysLogger)
	chunkSummarizer := summarizer.NewChunkSummarizer(llmProvider, cacheStore, cfg.Summarizer.CacheTTL, sysLogger)
	c.Pipeline = summarizer.NewPipeline(chunkSummarizer, cacheStore, c.Embedder, semantic, sysLogger,
		summarizer.WithChunkOverlap(cfg.Summarizer.ChunkOverlapWords),
		summarizer.WithResultTTL(cfg.Summarizer.CacheTTL),
	)

	// 4. Job Transport & Events
	jobQueue, err := newQueue(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.closers = append(c.closers, jobQueue.Close)

	var eventPublisher service.EventPublisher
	if cfg.App.NatsEventsEnabled {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	c.SummarizationService = service.NewSummarizationService(
		c.Pipeline,
		c.Embedder,
		jobQueue,
		jobRepo,
		cfg.Summarizer.DefaultModel,
		cfg.Summarizer.JobTimeout,
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(
		jobQueue,
		jobRepo,
		c.Pipeline,
		eventPublisher,
		cfg.Summarizer.Workers,
		cfg.Summarizer.JobTimeout,
		sysLogger,
	)
	c.SummaryController = controller.NewSummaryController(c.SummarizationService)

	// 5. Documents & Search
	if db != nil {
		index := newVectorIndex(ctx, db, cfg, c.Embedder.Dimension())
		documentRepo := implementation.NewDocumentRepository(db)

		c.DocumentService = service.NewDocumentService(documentRepo, c.Embedder, index, sysLogger)
		c.SearchService = service.NewSearchService(documentRepo, c.Embedder, index, sysLogger)
		c.DocumentController = controller.NewDocumentController(c.DocumentService, c.SearchService)
	}

	return c, nil
}

// Close releases queue, cache and NATS connections in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// newStore connects to Redis. When Redis is down and jobs stay in-process,
// an in-memory store is used instead; with NATS workers the shared store is required.
func newStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.Summarizer.CacheBackend == "memory" {
		if cfg.Summarizer.QueueBackend == "nats" {
			return nil, errors.New("CACHE_BACKEND=memory cannot be used with QUEUE_BACKEND=nats: job records must be shared")
		}
		log.Printf("[INFO] Using Cache Backend: MEMORY")
		return cache.NewMemoryStore(), nil
	}

	store, err := cache.NewRedisStore(ctx, cfg.App.RedisURL)
	if err == nil {
		log.Printf("[INFO] Using Cache Backend: REDIS")
		return store, nil
	}
	if cfg.Summarizer.QueueBackend == "nats" {
		return nil, fmt.Errorf("redis is required for NATS workers: %w", err)
	}
	log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory cache", err)
	return cache.NewMemoryStore(), nil
}

func newQueue(ctx context.Context, cfg *config.Config) (queue.Queue, error) {
	if cfg.Summarizer.QueueBackend == "nats" {
		q, err := pktNats.NewJobQueue(ctx, cfg.App.NatsURL)
		if err != nil {
			return nil, fmt.Errorf("init NATS job queue: %w", err)
		}
		log.Printf("[INFO] Using Job Queue: NATS JetStream (%s)", pktNats.JobSubject)
		return q, nil
	}
	log.Printf("[INFO] Using Job Queue: in-process channel")
	return queue.NewChannelQueue(queue.DefaultTopic, watermill.NewStdLogger(false, false)), nil
}

func newEmbeddingProvider(cfg *config.Config, llmProvider llm.LLMProvider) embedding.EmbeddingProvider {
	if cfg.Ai.EmbeddingProvider == "llm" {
		log.Printf("[INFO] Using Embedding Provider: LLM (%s)", cfg.Ai.LLMModel)
		return embedding.NewLLMProvider(llmProvider, cfg.Ai.LLMModel, cfg.Ai.EmbeddingDimension)
	}
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
}

// newVectorIndex returns nil when the backend cannot be prepared, which
// disables index search but keeps stored-vector search working.
func newVectorIndex(ctx context.Context, db *gorm.DB, cfg *config.Config, dimension int) vectorindex.Client {
	var index vectorindex.Client
	switch cfg.VectorIndex.Backend {
	case "memory":
		index = vectorindex.NewMemoryIndex()
	case "pgvector":
		index = vectorindex.NewPgVectorIndex(db, cfg.VectorIndex.Collection)
	default:
		index = vectorindex.NewQdrantIndex(vectorindex.QdrantConfig{
			URL:        cfg.VectorIndex.QdrantURL,
			APIKey:     cfg.VectorIndex.QdrantAPIKey,
			Collection: cfg.VectorIndex.Collection,
		})
	}

	if err := index.EnsureCollection(ctx, dimension, vectorindex.DistanceCosine); err != nil {
		log.Printf("[WARN] Vector index %s unavailable: %v", cfg.VectorIndex.Backend, err)
		return nil
	}
	log.Printf("[INFO] Using Vector Index: %s (%s)", cfg.VectorIndex.Backend, cfg.VectorIndex.Collection)
	return index
}
