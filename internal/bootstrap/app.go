package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/analytics"
	googleauth "legaldoc-backend/internal/auth"
	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/extract"
	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/llm/gemini"
	"legaldoc-backend/internal/queue"
	"legaldoc-backend/internal/services/health"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/server"
	"legaldoc-backend/internal/shared/storage/db"
	"legaldoc-backend/internal/shared/storage/object"
	localstore "legaldoc-backend/internal/shared/storage/object/local"
	s3store "legaldoc-backend/internal/shared/storage/object/s3"
	"legaldoc-backend/internal/simplify"
	"legaldoc-backend/internal/users"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	DocumentsRepo documents.Repo
	SimplifyRepo  simplify.Repo
	UsersRepo     users.Repo

	DocumentsService *documents.Service
	SimplifyService  *simplify.Service
	AnalyticsService *analytics.Service
	UsersService     *users.Service
	Health           *health.Service

	DocumentsHandler *documents.Handler
	SimplifyHandler  *simplify.Handler
	AnalyticsHandler *analytics.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		Health:           app.Health,
		DocumentsHandler: app.DocumentsHandler,
		SimplifyHandler:  app.SimplifyHandler,
		AnalyticsHandler: app.AnalyticsHandler,
		UsersHandler:     app.UsersHandler,
		GoogleAuth:       app.GoogleAuth,
		EnablePresign:    strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET")) != "",
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("LEGALDOC_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var simplifyRepo simplify.Repo
	var analyticsStore analytics.Store
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		simplifyRepo = &simplify.PGRepo{DB: app.DB}
		analyticsStore = &analytics.PGStore{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		simplifyRepo = simplify.NewMemoryRepo()
		analyticsStore = analytics.NewMemoryStore()
		userRepo = users.NewMemoryRepo()
	}

	analyticsSvc := analytics.NewService(analyticsStore)

	docSvc := &documents.Service{
		Store:       app.Store,
		Repo:        docRepo,
		Analytics:   analyticsSvc,
		MaxFileSize: app.Config.MaxFileSize,
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "gemini" && strings.TrimSpace(app.Config.GeminiAPIKey) != "" {
		geminiClient, err := gemini.NewClient(
			app.Config.GeminiAPIKey,
			app.Config.GeminiModel,
			app.Config.LLMTemperature,
			app.Config.MaxLLMTokens,
		)
		if err != nil {
			return err
		}
		llmClient = geminiClient
	}

	engine := &extract.Engine{}
	if strings.TrimSpace(app.Config.VisionAPIKey) != "" {
		ocr, err := extract.NewVisionClient(app.Config.VisionAPIKey)
		if err != nil {
			return err
		}
		engine.OCR = ocr
	}

	var enqueuer simplify.Enqueuer
	if app.Queue != nil {
		enqueuer = &queue.Enqueuer{Client: app.Queue}
	}

	simplifySvc := &simplify.Service{
		Repo:      simplifyRepo,
		DocRepo:   docRepo,
		Store:     app.Store,
		Extractor: engine,
		LLM:       llmClient,
		Analytics: analyticsSvc,
		Queue:     enqueuer,
		Model:     app.Config.GeminiModel,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	healthSvc := health.NewService()
	healthSvc.RegisterCheck("api", func(ctx context.Context) error { return nil })
	healthSvc.RegisterCheck("storage", func(ctx context.Context) error {
		if app.DB == nil {
			return nil
		}
		return app.DB.PingContext(ctx)
	})
	healthSvc.RegisterCheck("ai_service", func(ctx context.Context) error {
		if _, ok := llmClient.(llm.PlaceholderClient); ok {
			return errors.New("llm not configured")
		}
		return nil
	})
	healthSvc.RegisterCheck("analytics", func(ctx context.Context) error {
		_, err := analyticsStore.ListByDocument(ctx, "health-probe")
		return err
	})

	app.DocumentsRepo = docRepo
	app.SimplifyRepo = simplifyRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.SimplifyService = simplifySvc
	app.AnalyticsService = analyticsSvc
	app.UsersService = userSvc
	app.Health = healthSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.SimplifyHandler = simplify.NewHandler(simplifySvc)
	app.AnalyticsHandler = analytics.NewHandler(analyticsSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	return nil
}
