package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	aiopenai "pet-health-chat/internal/adapters/ai/openai"
	"pet-health-chat/internal/adapters/ai/yandex"
	fbauth "pet-health-chat/internal/adapters/auth/firebase"
	"pet-health-chat/internal/adapters/sessions/lru"
	fbstore "pet-health-chat/internal/adapters/storage/firebase"
	mem "pet-health-chat/internal/adapters/storage/memory"
	pg "pet-health-chat/internal/adapters/storage/postgres"
	"pet-health-chat/internal/adapters/storage/sqlite"
	"pet-health-chat/internal/config"
	"pet-health-chat/internal/domain/chat"
	"pet-health-chat/internal/domain/pets"
	"pet-health-chat/internal/platform/logger"
	"pet-health-chat/internal/platform/ratelimit"
	"pet-health-chat/internal/ports/auth"
	"pet-health-chat/internal/router"
)

// @title Pet Health Chat API
// @version 1.0
// @description Mascotas, historial médico y chat con asistente veterinario.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env es opcional: en producción todo viene del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"err": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var app *firebase.App
	if cfg.UsesFirebase() {
		fc := &firebase.Config{
			ProjectID:   cfg.FirebaseProjectID,
			DatabaseURL: cfg.FirebaseDatabaseURL,
		}
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		}
		a, err := firebase.NewApp(ctx, fc, opts...)
		if err != nil {
			return err
		}
		app = a
		log.Info("firebase admin initialized", map[string]any{"project_id": cfg.FirebaseProjectID})
	}

	petRepo, closeDB, err := openPetRepo(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer closeDB()

	var verifier auth.AuthVerifier
	if cfg.AuthProvider == config.AuthFirebase {
		client, err := app.Auth(ctx)
		if err != nil {
			return err
		}
		verifier = fbauth.NewVerifier(client)
	} else {
		log.Warn("auth in dev mode: X-Debug-User-ID is trusted", nil)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	prompts, err := config.LoadPrompts(cfg.PromptsPath)
	if err != nil {
		return err
	}

	sessions, err := lru.New(cfg.SessionMaxEntries, cfg.SessionTTL)
	if err != nil {
		return err
	}
	sweeper, err := lru.NewSweeper(sessions, cfg.SessionSweepSpec, log)
	if err != nil {
		return err
	}
	sweeper.Start()
	defer sweeper.Stop()

	h, err := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		PetRepo:      petRepo,
		ChatBackend:  backend,
		Sessions:     sessions,
		Limiter:      ratelimit.New(cfg.RateLimitPerMinute),
		Prompts:      chat.Prompts(prompts),
		AITimeout:    cfg.AITimeout,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":        srv.Addr,
			"storage":     cfg.StorageDriver,
			"auth":        cfg.AuthProvider,
			"ai_provider": cfg.AIProvider,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openPetRepo(ctx context.Context, cfg *config.Config, app *firebase.App) (pets.Repository, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := pg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return pg.NewPetsRepo(db), closer(db), nil

	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return sqlite.NewPetsRepo(db), closer(db), nil

	case config.StorageFirebase:
		client, err := app.Database(ctx)
		if err != nil {
			return nil, noop, err
		}
		return fbstore.NewPetsRepo(fbstore.NewTree(client)), noop, nil

	default:
		return mem.NewPetRepo(), noop, nil
	}
}

func closer(db *sql.DB) func() {
	return func() { _ = db.Close() }
}

func newBackend(cfg *config.Config) (chat.Backend, error) {
	if cfg.AIProvider == config.ProviderYandex {
		return yandex.New(cfg.YandexOAuthToken, cfg.YandexFolderID)
	}
	return aiopenai.New(aiopenai.Config{
		APIKey:      cfg.AIAPIKey,
		BaseURL:     cfg.AIBaseURL,
		Model:       cfg.AIModel,
		Temperature: cfg.AITemperature,
		TopP:        cfg.AITopP,
		MaxTokens:   cfg.AIMaxTokens,
	}), nil
}
