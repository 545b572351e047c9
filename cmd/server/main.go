package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/chat"
	"github.com/Skufu/heartcheck/internal/config"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/logging"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/upstream"
	"github.com/Skufu/heartcheck/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "heartcheck",
		Short:        "Heart disease risk screening front-end",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(historyCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Dir:    cfg.LogDir,
		ToFile: cfg.LogToFile,
	})
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)
	if cfg.SessionSecretGenerated {
		log.Warn("SESSION_SECRET is not set; sessions will not survive a restart")
	}

	site, err := content.Load()
	if err != nil {
		return err
	}
	seed, err := site.HistorySeed()
	if err != nil {
		return err
	}
	store := history.NewStore(seed)

	predictions := prediction.NewClient(upstream.New(cfg.PredictionAPIURL, cfg.UpstreamTimeout, log.Named("prediction")))
	backend := newChatBackend(cfg, log)

	var db web.HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer pool.Close()
		db = pool
		log.Info("Database connected")
	}

	router := web.Setup(web.Deps{
		Log:                log,
		Content:            site,
		Store:              store,
		Submitter:          prediction.NewSubmitter(predictions, store, log.Named("submitter")),
		Drafts:             assessment.NewDrafts(),
		Chat:               chat.NewSessions(backend, log.Named("chat")),
		DB:                 db,
		Prediction:         predictions,
		SessionSecret:      cfg.SessionSecret,
		CookieSecure:       cfg.CookieSecure,
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	log.Info("Server listening",
		zap.String("addr", server.Addr),
		zap.String("prediction_api", cfg.PredictionAPIURL),
		zap.String("chat_backend", cfg.ChatBackend),
	)
	waitForShutdown(server, log)
	return nil
}

func newChatBackend(cfg *config.Config, log *zap.Logger) chat.Backend {
	if cfg.ChatBackend == config.ChatBackendOpenAI {
		return chat.NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}
	return chat.NewRemoteBackend(upstream.New(cfg.ChatAPIURL, cfg.UpstreamTimeout, log.Named("chat_api")))
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, log *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
