package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	_ "github.com/princekumarofficial/upload-service/docs"
	"github.com/princekumarofficial/upload-service/internal/cache"
	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/events"
	"github.com/princekumarofficial/upload-service/internal/http/handlers/echo"
	uploadHandler "github.com/princekumarofficial/upload-service/internal/http/handlers/upload"
	ledgerHandler "github.com/princekumarofficial/upload-service/internal/http/handlers/uploads"
	wsHandler "github.com/princekumarofficial/upload-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/upload-service/internal/http/middleware"
	"github.com/princekumarofficial/upload-service/internal/services/mirror"
	"github.com/princekumarofficial/upload-service/internal/storage"
	"github.com/princekumarofficial/upload-service/internal/storage/postgres"
	"github.com/princekumarofficial/upload-service/internal/upload"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/upload-service/internal/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Upload Service API
// @version 1.0
// @description Single-file upload handler with an upload ledger, object mirror and live outcome feed.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.
func main() {
	// load config
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Env),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// outcome feed
	hub := wsClient.NewHub()
	go hub.Run(ctx)

	observers := []upload.Observer{events.NewEventPublisher(hub)}

	// ledger
	var ledger storage.Ledger
	if cfg.PGSQL.Enabled {
		pg, err := postgres.NewPostgres(cfg)
		if err != nil {
			log.Fatal("Failed to initialize database:", err)
		}
		defer pg.Close()
		ledger = pg
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()
		slog.Info("Connected to Redis", slog.String("address", cfg.Redis.Address))

		if ledger != nil {
			ledger = cache.NewCachedLedger(ledger, redisClient)
		}
	}

	if ledger != nil {
		observers = append(observers, storage.NewRecorder(ledger))
	}

	if cfg.MinIO.Enabled {
		mirrorService, err := mirror.NewService(ctx, &cfg.MinIO)
		if err != nil {
			log.Fatal("Failed to initialize object mirror:", err)
		}
		slog.Info("Mirroring uploads", slog.String("bucket", cfg.MinIO.BucketName))
		observers = append(observers, mirrorService)
	}

	opts := []upload.Option{
		upload.WithLogger(logger),
		upload.WithObservers(observers...),
	}
	if cfg.Upload.StrictNames {
		opts = append(opts, upload.WithPathResolver(upload.StrictPath))
	}

	handler := upload.NewHandler(cfg.Upload.Directory, upload.Policy{
		AllowedMediaTypes: cfg.Upload.AllowedMediaTypes,
		MaxSizeBytes:      cfg.Upload.MaxSizeBytes,
	}, opts...)
	if err := handler.EnsureDirectory(); err != nil {
		log.Fatal(err)
	}

	// setup router
	router := http.NewServeMux()
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	var postUpload http.Handler = uploadHandler.PostUpload(handler, cfg.Upload)
	if redisClient != nil {
		limits := middleware.NewRateLimitConfig(redisClient, map[string]int64{
			middleware.ActionUpload: cfg.RateLimit.UploadsPerMinute,
		})
		postUpload = limits.RateLimitMiddleware(middleware.ActionUpload)(postUpload)
	}
	router.Handle("POST /upload", postUpload)

	router.HandleFunc("GET /echo", echo.Echo())
	router.HandleFunc("POST /echo", echo.Echo())

	if ledger != nil {
		router.Handle("GET /uploads", auth(ledgerHandler.ListUploads(ledger)))
	}
	if redisClient != nil {
		router.Handle("GET /uploads/cache", auth(cache.GetCacheStats(redisClient)))
	}

	router.HandleFunc("GET /ws/outcomes", wsHandler.OutcomeFeed(hub, cfg.JWTSecret))

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.RequestOK("ok", map[string]int{
			"watchers": hub.GetClientCount(),
		}))
	})
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      middleware.RequestContext(logger)(router),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	slog.Info("server started",
		slog.String("address", cfg.HTTPServer.Address),
		slog.String("upload_dir", handler.Dir()))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}

func logLevel(env string) slog.Level {
	if env == "local" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
