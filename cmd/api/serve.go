package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcelmama/internal/adapter/api"
	"parcelmama/internal/adapter/api/handler"
	"parcelmama/internal/adapter/api/middleware"
	"parcelmama/internal/adapter/api/router"
	"parcelmama/internal/adapter/repository"
	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/service"
	"parcelmama/internal/infrastructure/cache"
	"parcelmama/internal/infrastructure/firebase"
	"parcelmama/internal/infrastructure/ratelimit"
	"parcelmama/internal/infrastructure/token"
	ws "parcelmama/internal/infrastructure/websocket"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/config"
	"parcelmama/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func connectMongo(ctx context.Context, storage config.StorageConfig) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(storage.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// openStore returns the configured store and a function releasing its connections.
func openStore(ctx context.Context) (*repository.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageFirestore:
		app, err := firebase.NewApp(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("create firestore client: %w", err)
		}
		return repository.NewFirestoreStore(client), func() { closeFirestore(client) }, nil

	case config.StorageMongo:
		client, err := connectMongo(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Storage.MongoDatabase)
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			logger.Warn("Failed to ensure mongo indexes: %v", err)
		}
		return repository.NewMongoStore(db), func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		logger.Warn("Using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}
}

func closeFirestore(client *firestore.Client) {
	if err := client.Close(); err != nil {
		logger.Error("Failed to close firestore client: %v", err)
	}
}

func newAuthUseCase(ctx context.Context) (*usecase.AuthUseCase, error) {
	if cfg.Auth.Provider == config.AuthFirebase {
		app, err := firebase.NewApp(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize firebase auth: %w", err)
		}
		// Firebase issues its own tokens, so POST /jwt is disabled.
		return usecase.NewAuthUseCase(firebase.NewFirebaseAuthClient(authClient), nil), nil
	}

	jwtService := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	return usecase.NewAuthUseCase(jwtService, jwtService), nil
}

func newPaymentProcessor() service.PaymentProcessor {
	if cfg.Payment.Provider == config.PaymentMidtrans {
		return service.NewMidtransPaymentService(cfg.Payment.MidtransServerKey, cfg.Payment.MidtransEnvironment == "production")
	}
	return service.NewStripePaymentService(cfg.Payment.StripeSecretKey)
}

func newNotifier(wsManager *ws.Manager) service.Notifier {
	notifiers := []service.Notifier{wsManager}
	if cfg.Mail.Enabled() {
		notifiers = append(notifiers, service.NewMailgunNotifier(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.Sender))
	} else {
		logger.Info("Mailgun not configured; email notifications disabled")
	}
	return service.NewMultiNotifier(notifiers...)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			event := logger.Get().Info()
			if v.Error != nil {
				event = logger.Get().Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	return e
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	var ranking usecase.RankingCache
	if cfg.Redis.Enabled() {
		redisCache, err := cache.NewRedisRankingCache(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		ranking = redisCache
	}

	prices, err := entity.NewPriceTable(cfg.Rules.PriceTiers)
	if err != nil {
		return err
	}

	authUseCase, err := newAuthUseCase(ctx)
	if err != nil {
		return err
	}

	wsManager := ws.NewManager()
	wsManager.Start(ctx)

	opts := usecase.Options{
		Timeout:  cfg.Storage.Timeout,
		Notifier: newNotifier(wsManager),
	}
	authorizer := usecase.NewRoleAuthorizer(store.Users)
	bounds := usecase.RatingBounds{Min: cfg.Rules.RatingMin, Max: cfg.Rules.RatingMax}

	handler.Setup(handler.UseCases{
		Auth:       authUseCase,
		Users:      usecase.NewUserUseCase(store.Users, store.Parcels, authorizer, ranking, opts),
		Parcels:    usecase.NewParcelUseCase(store.Parcels, store.Users, prices, opts),
		Assignment: usecase.NewAssignmentUseCase(store.Parcels, store.Users, authorizer, opts),
		Settlement: usecase.NewSettlementUseCase(store.Parcels, store.Users, ranking, opts),
		Reviews:    usecase.NewReviewUseCase(store.Reviews, store.Users, store.Parcels, ranking, bounds, opts),
		Ranking:    usecase.NewRankingUseCase(store.Users, ranking, opts),
		Payments:   usecase.NewPaymentUseCase(store.Payments, store.Parcels, newPaymentProcessor(), opts),
	}, wsManager, cfg.Storage.Driver)

	paymentLimiter := ratelimit.NewRateLimiter(cfg.Payment.RateLimit)
	paymentLimiter.StartCleanupRoutine(ctx.Done())

	e := newEcho()
	router.Setup(e, router.Middlewares{
		Auth:         middleware.NewAuthMiddleware(authUseCase),
		Admin:        middleware.NewAdminMiddleware(authorizer),
		PaymentLimit: paymentLimiter,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s (storage=%s, auth=%s, payments=%s)",
			cfg.ServerPort, cfg.Storage.Driver, cfg.Auth.Provider, cfg.Payment.Provider)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
		return err
	}
	logger.Info("Server exited properly")
	return nil
}
