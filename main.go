// main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go-storefront/config"
	"go-storefront/controllers"
	"go-storefront/logger"
	"go-storefront/middleware"
	"go-storefront/repository"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/shutdown"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: cfg.AppEnv != "prod",
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("bye")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background(), log)
	defer cancel()

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("mongo disconnect failed", "err", err)
		}
	}()

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := repository.NewUserRepository(db, log)
	products := repository.NewProductRepository(db, log)
	addresses := repository.NewShippingAddressRepository(db, log)
	orders := repository.NewOrderRepository(db, log)
	items := repository.NewOrderItemRepository(db, log)

	var seq services.Sequence = services.NewOrderCountSequence(orders)
	if cfg.TrackingSequence == config.SequenceRedis {
		if cfg.RedisAddr == "" {
			return errors.New("TRACKING_SEQUENCE=redis needs REDIS_ADDR")
		}
		rdb, err := utils.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		seq = repository.NewRedisSequence(rdb)
	}
	log.Info("tracking sequence selected", "source", cfg.TrackingSequence)

	mailer, err := utils.NewEmailService(cfg.Email, log)
	if err != nil {
		return err
	}
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	userSvc := services.NewUserService(users, log)
	authSvc := services.NewAuthService(users, userSvc, tokens, mailer, log)
	productSvc := services.NewProductService(products, log)
	orderSvc := services.NewOrderService(services.OrderDeps{
		Orders:    orders,
		Items:     items,
		Products:  products,
		Addresses: addresses,
		Users:     users,
		UserSvc:   userSvc,
		Tracking:  services.NewTrackingNumbers(cfg.TrackingPrefix, seq),
		Mailer:    mailer,
		Log:       log,
	})

	if cfg.SeedProducts {
		if _, err := productSvc.Seed(ctx); err != nil {
			return err
		}
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, middleware.NewAuthenticator(tokens), log, routes.Table(routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc, log),
		Users:    controllers.NewUserController(userSvc, log),
		Products: controllers.NewProductController(productSvc, log),
		Orders:   controllers.NewOrderController(orderSvc, log),
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
