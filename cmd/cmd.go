package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"duet-backend/internal/config"
	"duet-backend/internal/handlers"
	"duet-backend/internal/middleware"
	"duet-backend/internal/repository"
	"duet-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
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

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	coupleRepo := repository.NewCoupleRepository(db)
	postRepo := repository.NewPostRepository(db)
	eventRepo := repository.NewEventRepository(db)
	itemRepo := repository.NewItemRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)

	// Initialize services
	calendarService := services.NewCalendarService(userRepo, cfg.Google)
	var syncer services.CalendarSyncer
	if calendarService.Enabled() {
		syncer = calendarService
	} else {
		log.Warn().Msg("Google OAuth client not configured, calendar sync disabled")
	}

	coupleService := services.NewCoupleService(coupleRepo, userRepo, eventRepo, syncer)
	tokenTTL := time.Duration(cfg.JWT.TTLDays) * 24 * time.Hour
	userService := services.NewUserService(userRepo, coupleService, cfg.JWT.Secret, tokenTTL)
	postService := services.NewPostService(postRepo)
	eventService := services.NewEventService(eventRepo, coupleRepo, syncer)
	itemService := services.NewItemService(itemRepo)
	timelineService := services.NewTimelineService(timelineRepo)

	mediaSigner, err := services.NewMediaSigner(cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create media signer")
	}

	// Initialize handlers
	secureCookies := strings.HasPrefix(cfg.Server.ClientURL, "https://")
	authHandler := handlers.NewAuthHandler(userService, calendarService, mediaSigner, cfg.Server.ClientURL, tokenTTL, secureCookies)
	coupleHandler := handlers.NewCoupleHandler(coupleService)
	postHandler := handlers.NewPostHandler(postService)
	eventHandler := handlers.NewEventHandler(eventService)
	itemHandler := handlers.NewItemHandler(itemService)
	timelineHandler := handlers.NewTimelineHandler(timelineService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware(cfg.Server.ClientURL))

	auth := middleware.AuthMiddleware(userService)

	// Routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/google", authHandler.GoogleLogin)
		r.Get("/google/callback", authHandler.GoogleCallback)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.GetMe)
			r.Get("/cloudinary-sign", authHandler.SignUpload)
			r.Get("/google-status", authHandler.GoogleStatus)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/couple", coupleHandler.GetCouple)
		r.Patch("/couple", coupleHandler.UpdateCouple)

		r.Get("/posts", postHandler.GetPosts)
		r.Post("/posts", postHandler.CreatePost)
		r.Put("/posts/{id}", postHandler.UpdatePost)
		r.Delete("/posts/{id}", postHandler.DeletePost)

		r.Get("/events", eventHandler.GetEvents)
		r.Post("/events", eventHandler.CreateEvent)
		r.Delete("/events/{id}", eventHandler.DeleteEvent)

		r.Get("/items", itemHandler.GetItems)
		r.Post("/items", itemHandler.CreateItem)
		r.Patch("/items/{id}", itemHandler.UpdateItem)
		r.Delete("/items/{id}", itemHandler.DeleteItem)

		r.Get("/timeline", timelineHandler.GetMoments)
		r.Post("/timeline", timelineHandler.CreateMoment)
		r.Patch("/timeline/{id}", timelineHandler.UpdateMoment)
		r.Delete("/timeline/{id}", timelineHandler.DeleteMoment)
	})

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

	// Graceful shutdown with timeout
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

// corsMiddleware handles CORS. The session cookie requires an explicit
// origin and credentials support, not a wildcard.
func corsMiddleware(clientURL string) func(http.Handler) http.Handler {
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", clientURL)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
