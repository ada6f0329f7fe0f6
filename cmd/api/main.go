package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caresteer/hospital-discovery/backend/internal/adapters/cache"
	"github.com/caresteer/hospital-discovery/backend/internal/adapters/database"
	"github.com/caresteer/hospital-discovery/backend/internal/adapters/providers/places"
	"github.com/caresteer/hospital-discovery/backend/internal/adapters/search"
	"github.com/caresteer/hospital-discovery/backend/internal/api/handlers"
	"github.com/caresteer/hospital-discovery/backend/internal/api/middleware"
	"github.com/caresteer/hospital-discovery/backend/internal/api/routes"
	"github.com/caresteer/hospital-discovery/backend/internal/application/services"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/providers"
	"github.com/caresteer/hospital-discovery/backend/internal/domain/repositories"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/openai"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/postgres"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/redis"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/clients/typesense"
	"github.com/caresteer/hospital-discovery/backend/internal/infrastructure/observability"
	"github.com/caresteer/hospital-discovery/backend/pkg/config"
	"github.com/caresteer/hospital-discovery/backend/pkg/secrets"
)

func main() {
	// Pull secrets from Vault into the environment before reading config
	vaultCfg := secrets.LoadVaultConfigFromEnv("")
	if vaultCfg.Enabled {
		result, err := secrets.ApplyVaultSecrets(context.Background(), vaultCfg)
		if err != nil {
			log.Fatalf("Failed to load secrets from Vault: %v", err)
		}
		log.Printf("Loaded %d secrets from Vault path %s (%d skipped)", result.Loaded, result.Path, result.Skipped)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	// Create base hospital adapter
	baseHospitalAdapter := database.NewHospitalAdapterWithMetrics(pgClient, metrics)

	// Wrap with caching if Redis is available (for read performance optimization)
	var hospitalAdapter repositories.HospitalRepository
	if cacheProvider != nil {
		hospitalAdapter = database.NewCachedHospitalAdapter(baseHospitalAdapter, cacheProvider)
		log.Println("Hospital adapter wrapped with caching layer")
	} else {
		hospitalAdapter = baseHospitalAdapter
		log.Println("Hospital adapter running without cache (Redis unavailable)")
	}

	var searchRepo repositories.HospitalSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	var placesProvider providers.PlacesProvider
	switch cfg.Places.Provider {
	case "google":
		if cfg.Places.APIKey == "" {
			log.Println("Warning: PLACES_API_KEY is not set; using mock places provider")
			placesProvider = places.NewMockPlacesProvider()
		} else {
			placesProvider = places.NewGooglePlacesProvider(cfg.Places.APIKey, cacheProvider)
		}
	default:
		placesProvider = places.NewMockPlacesProvider()
	}

	var triageProvider providers.TriageProvider
	if cfg.OpenAI.APIKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set; triage endpoint disabled")
	} else {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			log.Printf("Warning: Failed to initialize OpenAI client: %v", err)
		} else {
			triageProvider = openaiClient
		}
	}

	// Initialize services
	matchResolver := services.NewMatchResolverService(
		hospitalAdapter,
		cfg.Matching.RadiusKm,
		cfg.Matching.CandidateLimit,
	)
	enrichmentService := services.NewEnrichmentService(
		placesProvider,
		matchResolver,
		cfg.Matching.Workers,
		metrics,
	)
	hospitalService := services.NewHospitalService(
		hospitalAdapter,
		searchRepo,
		enrichmentService,
		services.NewRankingService(),
	)

	// Initialize handlers
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)

	var triageHandler *handlers.TriageHandler
	if triageProvider != nil {
		triageHandler = handlers.NewTriageHandler(services.NewTriageService(triageProvider))
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		hospitalHandler,
		triageHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
