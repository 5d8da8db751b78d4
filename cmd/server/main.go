package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"prospekt/internal/auth"
	"prospekt/internal/config"
	"prospekt/internal/domain/services"
	"prospekt/internal/handler"
	"prospekt/internal/middleware"
	"prospekt/internal/preset"
	"prospekt/internal/render"
	"prospekt/internal/render/chromium"
	"prospekt/internal/repository/postgres"
	"prospekt/internal/service/assets"
	"prospekt/internal/service/brochure"
	"prospekt/internal/service/contact"
	"prospekt/internal/service/patch"
	synthimage "prospekt/internal/service/synth/image"
	synthtext "prospekt/internal/service/synth/text"
	"prospekt/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	jwtVerifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	logger.Info("database connected")

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	brochureRepo := postgres.NewBrochureRepository(repoConfig)

	store, err := storage.NewDiskStore(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create artifact store: %v", err)
	}

	catalog, err := preset.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load preset catalog: %v", err)
	}

	// Text provider: Anthropic when a key is configured, a local lorem
	// generator otherwise so dev environments work keyless.
	var textProvider services.TextProvider
	if cfg.AnthropicAPIKey != "" {
		textProvider, err = synthtext.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.TextModel)
		if err != nil {
			log.Fatalf("Failed to create text provider: %v", err)
		}
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, using lorem text provider")
		textProvider = synthtext.NewLoremProvider()
	}
	textSynth := synthtext.NewSynthesizer(textProvider, logger)

	placeholder, err := synthimage.NewPlaceholder(cfg.PlaceholderFont)
	if err != nil {
		log.Fatalf("Failed to create placeholder renderer: %v", err)
	}
	var imageProvider services.ImageProvider
	if cfg.ImageEndpoint != "" {
		imageProvider = synthimage.NewHTTPProvider(cfg.ImageEndpoint, cfg.ImageAPIKey, 90*time.Second)
	} else {
		logger.Warn("IMAGE_ENDPOINT not set, hero images use placeholders")
	}
	imageSynth := synthimage.NewSynthesizer(imageProvider, placeholder, func(key string) string {
		return catalog.Get(key).Tint
	}, logger)

	contactResolver := contact.NewResolver(store)
	assetManager := assets.NewManager(store, logger)
	heroRegen := brochure.NewHeroRegenerator(imageSynth, assetManager, catalog)

	var interpreter patch.Interpreter
	if cfg.AnthropicAPIKey != "" {
		interpreter, err = patch.NewAnthropicInterpreter(cfg.AnthropicAPIKey, cfg.TextModel)
		if err != nil {
			log.Fatalf("Failed to create instruction interpreter: %v", err)
		}
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, refinements use pattern matching only")
	}
	patchEngine := patch.NewEngine(
		interpreter,
		patch.NewMatcher(catalog.Keys()),
		textSynth,
		contactResolver,
		heroRegen,
		catalog,
		logger,
	)

	renderer, err := render.NewRenderer(store)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	rasterizer := chromium.NewClient(cfg.RasterizerURL, time.Duration(cfg.RasterizerTimeout)*time.Second)
	renderCoord := render.NewCoordinator(renderer, rasterizer, store, logger)

	brochureService := brochure.NewService(
		brochureRepo,
		textSynth,
		imageSynth,
		patchEngine,
		assetManager,
		contactResolver,
		renderCoord,
		catalog,
		logger,
	)

	brochureHandler := handler.NewBrochureHandler(brochureService, logger)
	filesHandler := handler.NewFilesHandler(store, logger)

	logger.Info("services initialized")

	// HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)

	// Brochure routes
	mux.HandleFunc("POST /api/brochures", brochureHandler.Generate)
	mux.HandleFunc("GET /api/brochures", brochureHandler.List)
	mux.HandleFunc("POST /api/brochures/{id}/refine", brochureHandler.Refine)
	mux.HandleFunc("POST /api/brochures/{id}/hero", brochureHandler.SetHero)
	mux.HandleFunc("POST /api/brochures/{id}/gallery", brochureHandler.AppendGallery)
	mux.HandleFunc("PATCH /api/brochures/{id}/contact", brochureHandler.UpdateContact)

	// Stored artifact routes
	mux.HandleFunc("GET /files/{path...}", filesHandler.Get)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
