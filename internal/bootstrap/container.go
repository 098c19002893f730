package bootstrap

import (
	"log"

	"research-chat-be/internal/config"
	"research-chat-be/internal/controller"
	"research-chat-be/internal/handler"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/implementation"
	"research-chat-be/internal/repository/memory"
	"research-chat-be/internal/service"
	"research-chat-be/internal/websocket"
	"research-chat-be/pkg/citation"
	"research-chat-be/pkg/embedding"
	"research-chat-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	ContextController controller.IContextController
	SourceController  controller.ISourceController
	SystemController  controller.ISystemController

	// Background services (exposed for main.go to run)
	ReembedService service.IReembedService

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Repositories
	chatRepo := implementation.NewChatRepository(db)
	notebookRepo := implementation.NewNotebookRepository(db)
	sourceRepo := implementation.NewSourceRepository(db)
	noteRepo := implementation.NewNoteRepository(db)
	sessionStates := memory.NewSessionStateRepository()

	// 5. WebSocket hub + notifier
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()
	notifier := websocket.NewSessionNotifier(wsHub)

	// 6. Services
	contextResolver := service.NewContextResolver(sourceRepo, noteRepo)
	chatExecutor := service.NewChatExecutor(chatRepo, llmProvider, sysLogger)
	sessionManager := service.NewSessionManager(sessionStates, chatRepo, contextResolver, chatExecutor, notifier, sysLogger)

	referenceResolver := citation.NewResolver(contextResolver, notifier)

	chatService := service.NewChatService(chatRepo, notebookRepo, sessionManager, sysLogger)
	contextService := service.NewContextService(sessionManager, chatRepo, sourceRepo, noteRepo, referenceResolver, sysLogger)
	systemService := service.NewSystemService(db, cfg, sysLogger)
	reembedService := service.NewReembedService(
		pubSub,
		sourceRepo,
		embeddingProvider,
		cfg.Ai.EmbeddingChunkSize,
		cfg.Ai.EmbeddingOverlap,
		sysLogger,
	)

	// 7. Handlers & controllers
	notifHandler := handler.NewNotificationHandler(wsHub, sysLogger)

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		ContextController:   controller.NewContextController(contextService),
		SourceController:    controller.NewSourceController(reembedService),
		SystemController:    controller.NewSystemController(systemService),
		ReembedService:      reembedService,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
