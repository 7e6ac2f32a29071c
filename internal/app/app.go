package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backdrop-api/internal/broker"
	kafka_impl "backdrop-api/internal/broker/kafka"
	"backdrop-api/internal/config"
	removal_h "backdrop-api/internal/http-server/handler/removal"
	system_h "backdrop-api/internal/http-server/handler/system"
	"backdrop-api/internal/http-server/router"
	"backdrop-api/internal/staging"
	removal_uc "backdrop-api/internal/usecase/removal"
	"backdrop-api/internal/usecase/removal/strategies"

	"github.com/wb-go/wbf/zlog"
)

const brokerPingTimeout = 3 * time.Second

type App struct {
	cfg       *config.Config
	server    *http.Server
	logger    *zlog.Zerolog
	usecase   *removal_uc.RemovalUsecase
	publisher broker.Publisher
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	stager, err := staging.NewStager(cfg.Upload.StagingDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stager: %w", err)
	}

	publisher := newPublisher(cfg, logger)

	external := strategies.NewExternalAPI(strategies.ExternalOptions{
		APIKey:     cfg.External.APIKey,
		APIURL:     cfg.External.APIURL,
		Timeout:    cfg.External.Timeout,
		RatePerSec: cfg.External.RatePerSec,
		Burst:      cfg.External.Burst,
	}, logger)

	removalUsecase := removal_uc.NewRemovalUsecase(cfg.APIConfigured(), publisher, logger,
		strategies.NewPassThrough(),
		strategies.NewCornerSampler(cfg.Removal.CornerThreshold, cfg.Removal.MaxPixels),
		strategies.NewBrightnessThreshold(cfg.Removal.BrightnessThreshold, cfg.Removal.MaxPixels),
		external,
	)

	h := &router.Handler{
		RemovalHandler: removal_h.NewRemovalHandler(removalUsecase, stager, cfg.Upload.MaxBytes, logger),
		SystemHandler:  system_h.NewSystemHandler(removalUsecase, logger),
		StaticDir:      cfg.Server.StaticDir,
	}

	mux := router.SetupRouter(h, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info().
		Bool("api_configured", cfg.APIConfigured()).
		Bool("events_enabled", cfg.EventsEnabled()).
		Int64("max_upload_bytes", cfg.Upload.MaxBytes).
		Str("staging_dir", stager.Dir()).
		Msg("Application configured")

	return &App{
		cfg:       cfg,
		server:    server,
		logger:    logger,
		usecase:   removalUsecase,
		publisher: publisher,
	}, nil
}

func newPublisher(cfg *config.Config, logger *zlog.Zerolog) broker.Publisher {
	if !cfg.EventsEnabled() {
		return broker.NopPublisher{}
	}

	producer := kafka_impl.NewProducerClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), brokerPingTimeout)
	defer cancel()
	if err := producer.Ping(ctx); err != nil {
		logger.Warn().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka is unreachable, events will be retried per request")
	}

	return producer
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		a.close()
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		a.close()

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

// close flushes pending audit events and releases the publisher.
func (a *App) close() {
	a.usecase.Wait()

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
