package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/config"
	"github.com/Jatin546/routebuddy-mobile-app/internal/handlers"
	"github.com/Jatin546/routebuddy-mobile-app/internal/middleware"
	"github.com/Jatin546/routebuddy-mobile-app/internal/repository"
	"github.com/Jatin546/routebuddy-mobile-app/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to document store
	client, err := repository.Connect(context.Background(), cfg.Mongo.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.Mongo.Database)
	log.Info().Msg("MongoDB connection established")

	// Connect to redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Media storage is optional; without it image payloads stay inline.
	var media *services.MediaStore
	if cfg.AWS.S3Bucket != "" {
		media, err = services.NewMediaStore(
			context.Background(),
			cfg.AWS.Region,
			cfg.AWS.S3Bucket,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Endpoint,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create media store")
		}
	}

	// Push notifications are optional.
	var push *services.APNsPusher
	if cfg.APNs.Enabled {
		push, err = services.NewAPNsPusher(cfg.APNs.CertFile, cfg.APNs.CertPass, cfg.APNs.Topic, cfg.APNs.Sandbox)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create APNs pusher")
		}
	}

	// Real-time fan-out
	hub := services.NewWSHub()
	bus := services.NewEventBus(rdb, cfg.Redis.Channel, hub)

	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	go bus.Run(busCtx)

	// Initialize services
	identity := services.NewIdentityClient(cfg.Auth.ProviderURL, cfg.Auth.RequestTimeout)
	authService := services.NewAuthService(sessionRepo, userRepo, identity, cfg.Auth.SessionTTL)
	userService := services.NewUserService(userRepo, nil)
	if media != nil {
		userService = services.NewUserService(userRepo, media)
	}
	routeService := services.NewRouteService(routeRepo)
	matchService := services.NewMatchService(routeRepo, userRepo)
	connService := services.NewConnectionService(connRepo, userRepo)
	messageService := services.NewMessageService(msgRepo, userRepo, bus, push)
	reportService := services.NewReportService(reportRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(userService)
	routeHandler := handlers.NewRouteHandler(routeService)
	discoveryHandler := handlers.NewDiscoveryHandler(matchService)
	connHandler := handlers.NewConnectionHandler(connService)
	messageHandler := handlers.NewMessageHandler(messageService)
	reportHandler := handlers.NewReportHandler(reportService, userService)
	wsHandler := handlers.NewWebSocketHandler(hub, bus, authService, messageService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/exchange-session", authHandler.ExchangeSession)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(authService))

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/profile/me", profileHandler.Me)
			r.Put("/profile/update", profileHandler.Update)
			r.Post("/profile/verify-id", profileHandler.VerifyID)
			r.Post("/profile/push-token", profileHandler.SetPushToken)
			r.Get("/profile/{user_id}", profileHandler.Get)

			r.Post("/routes/create", routeHandler.Create)
			r.Get("/routes/my-routes", routeHandler.ListMine)
			r.Put("/routes/{route_id}", routeHandler.Update)
			r.Delete("/routes/{route_id}", routeHandler.Delete)

			r.Get("/discovery/matches", discoveryHandler.Matches)

			r.Post("/connections/request", connHandler.Request)
			r.Post("/connections/respond", connHandler.Respond)
			r.Get("/connections/list", connHandler.List)

			r.Post("/messages/send", messageHandler.Send)
			r.Get("/messages/conversation/{other_user_id}", messageHandler.Conversation)
			r.Post("/messages/mark-read/{other_user_id}", messageHandler.MarkRead)

			r.Post("/reports/create", reportHandler.Create)
			r.Post("/reports/block/{user_id}", reportHandler.Block)
			r.Post("/reports/unblock/{user_id}", reportHandler.Unblock)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
