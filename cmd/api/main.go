package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ErikSvetich/treeline-assistant/internal/config"
	"github.com/ErikSvetich/treeline-assistant/internal/handler"
	"github.com/ErikSvetich/treeline-assistant/internal/model/persona"
	"github.com/ErikSvetich/treeline-assistant/internal/service/ai"
	chatservice "github.com/ErikSvetich/treeline-assistant/internal/service/chat"
	"github.com/ErikSvetich/treeline-assistant/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file, continuing with system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	personaStore := persona.NewRegistry(persona.Seed())

	transcripts := newTranscriptStore(ctx, cfg.Store, logger)

	// A missing API key degrades to visible generation errors rather than a
	// startup failure; no error is fatal to a running session.
	var generator chatservice.Generator
	if cfg.AI.Enabled() {
		client, err := ai.NewClient(ctx, cfg.AI)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize completion client, chat will report errors")
		} else {
			generator = client
			logger.Info().Str("model", cfg.AI.Model).Msg("completion client initialized")
		}
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, chat submissions will fail visibly")
	}

	chatSvc := chatservice.NewService(personaStore, transcripts, generator, logger)
	router := handler.NewRouter(personaStore, chatSvc, logger)

	startServer(ctx, cfg.Server, router, logger)
}

// newTranscriptStore picks the durable store when credentials are present and
// falls back to a process-local one otherwise.
func newTranscriptStore(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) store.TranscriptStore {
	if !cfg.Enabled() {
		logger.Warn().Msg("store credentials not configured, transcripts are process-local only")
		return store.NewMemoryStore()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to configure durable store, transcripts are process-local only")
		return store.NewMemoryStore()
	}

	logger.Info().Str("table", cfg.Table).Str("region", cfg.Region).Msg("durable transcript store initialized")
	return store.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Table, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger zerolog.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info().Str("addr", serverCfg.Addr).Msg("treeline assistant listening")
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
