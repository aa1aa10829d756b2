package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookvault/config"
	"bookvault/cron"
	"bookvault/database"
	eventsRepo "bookvault/database/repository/events"
	"bookvault/handlers"
	"bookvault/middleware"
	"bookvault/models"
	"bookvault/routes"
	"bookvault/services/escrow"
	"bookvault/services/events"
	"bookvault/services/token"
	"bookvault/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Event pipeline: log synchronously, push to Redis and archive to Mongo
	// off the engine's lock.
	eventArchive := eventsRepo.NewMongoEventRepo()
	asyncSink := events.NewAsyncSink(events.MultiSink{
		&events.RedisPublisher{Client: utils.GetEventsClient(), Logger: logger},
		&events.MongoArchiver{Repo: eventArchive, Logger: logger},
	}, 1024, logger)
	defer asyncSink.Close()
	sink := events.MultiSink{
		&events.LogSink{Logger: logger},
		asyncSink,
	}

	// The in-memory vault stands in for the settlement token. Swap in a real
	// token.Vault implementation to custody actual funds.
	vault := token.NewMemVault(config.AppConfig.VaultAddress)

	engine, err := escrow.New(
		escrow.Identities{
			Admin:        config.AppConfig.AdminAddress,
			Oracle:       config.AppConfig.OracleAddress,
			Treasury:     config.AppConfig.TreasuryAddress,
			VaultAddress: config.AppConfig.VaultAddress,
		},
		models.EngineParams{
			FeeBps:               config.AppConfig.FeeBps,
			LateCancelPenaltyBps: config.AppConfig.LateCancelPenaltyBps,
			ChallengeWindow:      config.AppConfig.ChallengeWindow(),
			NoAttestBuffer:       config.AppConfig.NoAttestBuffer(),
			DisputeTimeout:       config.AppConfig.DisputeTimeout(),
			ChallengeBond:        config.AppConfig.ChallengeBond,
		},
		vault,
		sink,
		escrow.SystemClock(),
		logger,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build escrow engine: %v", err)
	}

	handlers.Init(engine)
	cron.InitSettlementWorker(engine)

	// Register routes.
	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
