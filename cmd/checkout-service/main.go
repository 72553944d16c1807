package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/LavaJover/voltz-checkout-service/internal/app/background"
	"github.com/LavaJover/voltz-checkout-service/internal/app/setup"
	"github.com/LavaJover/voltz-checkout-service/internal/config"
	"github.com/LavaJover/voltz-checkout-service/internal/delivery/grpcapi"
	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/handlers"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	cfg := config.MustLoad()

	os.Exit(run(cfg))
}

// run returns the process exit code once every deferred cleanup has run.
func run(cfg *config.CheckoutConfig) int {
	lg, err := logger.New(logger.Config{
		Level:  cfg.LogConfig.LogLevel,
		Format: cfg.LogConfig.LogFormat,
		Output: cfg.LogConfig.LogOutput,
	}, "checkout-service")
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return 1
	}
	defer lg.Sync()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg, lg)
	if err != nil {
		lg.Error("failed to init dependencies", zap.Error(err))
		return 1
	}
	defer func() {
		if err := deps.Close(); err != nil {
			lg.Warn("failed to close dependencies", zap.Error(err))
		}
	}()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		lg.Error("failed to init use cases", zap.Error(err))
		return 1
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Stores:     uc.Stores,
		Activation: uc.Activation,
		Settings:   uc.CurrencySettings,
		Rates:      uc.ExchangeRates,
		GeoIP:      uc.GeoIP,
		Sessions:   deps.Sessions,
		Gatherer:   deps.Registry,
		Log:        lg.Named("http"),
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthHandler := grpcapi.NewHealthHandler(lg.Named("health"),
		grpcapi.Probe{Name: "storage", Check: deps.Ping},
		grpcapi.Probe{Name: "rates", Check: uc.ExchangeRates.Ping},
	)
	healthHandler.Register(grpcServer)

	var events background.MessageSource
	if deps.Subscriber != nil {
		events = deps.Subscriber
	}
	tasks := background.NewBackgroundTasks(background.Config{
		WarmupBase:     cfg.Currency.WarmupBase,
		WarmupInterval: cfg.Currency.WarmupInterval,
		InstanceID:     deps.InstanceID,
		GroupID:        cfg.Kafka.GroupID,
	}, uc.ExchangeRates, uc.GeoIP, uc.Stores, events, lg.Named("background"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("http server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr())
		if err != nil {
			return err
		}
		lg.Info("grpc server started", zap.String("addr", cfg.GRPCAddr()))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		healthHandler.Run(gctx, 15*time.Second)
		return nil
	})

	g.Go(func() error {
		return tasks.StartAll(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("checkout service stopped with error", zap.Error(err))
		return 1
	}
	lg.Info("checkout service stopped")
	return 0
}
