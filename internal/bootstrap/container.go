package bootstrap

import (
	"context"
	"fmt"

	"content-engine-be/internal/config"
	"content-engine-be/internal/controller"
	"content-engine-be/internal/handler"
	"content-engine-be/internal/pkg/logger"
	"content-engine-be/internal/repository/implementation"
	"content-engine-be/internal/repository/memory"
	"content-engine-be/internal/repository/unitofwork"
	"content-engine-be/internal/service"
	"content-engine-be/internal/websocket"
	"content-engine-be/pkg/embedding"
	"content-engine-be/pkg/events"
	"content-engine-be/pkg/llm/factory"
	"content-engine-be/pkg/metrics"
	pktNats "content-engine-be/pkg/nats"
	"content-engine-be/pkg/rag/retrieval"
	"content-engine-be/pkg/rag/stream"
	"content-engine-be/pkg/rag/title"
	"content-engine-be/pkg/turnlock"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const moduleName = "Container"

type Container struct {
	// Controllers
	ChatController         controller.IChatController
	ConversationController controller.IConversationController
	SourceController       controller.ISourceController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Background workers, started by Start.
	ConsumerService     service.IConsumerService
	TitleQueue          *title.Queue
	NotificationService *service.NotificationService

	Metrics *metrics.Metrics
	Logger  logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	appMetrics := metrics.New("content_engine", "rag")

	c := &Container{Metrics: appMetrics, Logger: sysLogger}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(moduleName, "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn(moduleName, "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	rdb := newRedisClient(cfg.App.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { rdb.Close() })
	}

	// 3. Model providers
	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OpenAIKey,
		providerBaseURL(cfg.Ai.EmbeddingProvider, cfg),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Type:      cfg.Ai.LLMProvider,
		APIKey:    cfg.Ai.OpenAIKey,
		BaseURL:   providerBaseURL(cfg.Ai.LLMProvider, cfg),
		Model:     cfg.Ai.ExploreModel,
		MaxTokens: cfg.Ai.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info(moduleName, "Model providers ready", map[string]interface{}{
		"embedding": cfg.Ai.EmbeddingProvider,
		"llm":       cfg.Ai.LLMProvider,
	})

	// 4. Notification System Infrastructure
	wsHub := websocket.NewHub(rdb, sysLogger)
	notifService := service.NewNotificationService(natsSub, wsHub, sysLogger)

	// 5. RAG pipeline
	retriever := retrieval.NewRetriever(
		implementation.NewSourceRepository(db),
		implementation.NewBucketRepository(db),
		embeddingProvider,
		retrieval.Config{
			SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			TopK:                cfg.Retrieval.TopK,
		},
		sysLogger,
		appMetrics,
	)

	persistence := service.NewConversationPersistence(uowFactory)
	titleQueue := title.NewQueue(
		pubSub,
		pubSub,
		title.NewGenerator(llmProvider, cfg.Ai.TitleModel),
		persistence,
		eventPublisher,
		notifService,
		sysLogger,
		appMetrics,
	)
	relay := stream.NewRelay(
		llmProvider,
		persistence,
		titleQueue,
		stream.Config{PreviewLength: cfg.Retrieval.PreviewLength},
		sysLogger,
		appMetrics,
	)

	// 6. Services
	voiceService := service.NewVoiceService(uowFactory, memory.NewVoiceCache(0), sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		newLocker(cfg, rdb, sysLogger),
		voiceService,
		retriever,
		relay,
		eventPublisher,
		service.ChatConfig{
			ExploreModel: cfg.Ai.ExploreModel,
			DraftModel:   cfg.Ai.DraftModel,
		},
		sysLogger,
	)
	publisherService := service.NewPublisherService(service.EmbedSourceTopic, pubSub)
	sourceService := service.NewSourceService(uowFactory, publisherService, sysLogger)
	conversationService := service.NewConversationService(uowFactory)
	consumerService := service.NewConsumerService(
		pubSub,
		service.EmbedSourceTopic,
		uowFactory,
		embeddingProvider,
		eventPublisher,
		cfg.Retrieval.EmbedCharLimit,
		sysLogger,
	)

	// 7. Controllers
	c.ChatController = controller.NewChatController(chatService, sysLogger)
	c.ConversationController = controller.NewConversationController(conversationService)
	c.SourceController = controller.NewSourceController(sourceService)
	c.NotificationHandler = handler.NewNotificationHandler(wsHub, sysLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService
	c.TitleQueue = titleQueue
	c.NotificationService = notifService
	return c, nil
}

// Start launches the background workers. They stop when ctx is done.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.ConsumerService.Consume(ctx); err != nil {
		return fmt.Errorf("start embedding consumer: %w", err)
	}
	if err := c.TitleQueue.Start(ctx); err != nil {
		return fmt.Errorf("start title queue: %w", err)
	}
	go drainTitleErrors(ctx, c.TitleQueue.Errors(), c.Logger)

	c.NotificationService.Start(ctx)
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn(moduleName, "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn(moduleName, "Redis unreachable, falling back to local-only features", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

// drainTitleErrors keeps the title error channel empty. The queue already
// logs each failure at Warn.
func drainTitleErrors(ctx context.Context, errs <-chan error, log logger.ILogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			log.Debug(moduleName, "Title job failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func newLocker(cfg *config.Config, rdb *redis.Client, log logger.ILogger) turnlock.Locker {
	if cfg.Turn.LockBackend == "redis" && rdb != nil {
		return turnlock.NewRedisLocker(rdb, turnlock.DefaultPrefix, cfg.Turn.LockTTL)
	}
	log.Info(moduleName, "Using in-process turn lock", map[string]interface{}{"backend": cfg.Turn.LockBackend})
	return turnlock.NewMemoryLocker(cfg.Turn.LockTTL)
}

func providerBaseURL(provider string, cfg *config.Config) string {
	if provider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}
