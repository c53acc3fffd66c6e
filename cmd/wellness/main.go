package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"

	"svasthya/auth"
	"svasthya/chat"
	"svasthya/companion"
	"svasthya/crisis"
	"svasthya/internal"
	"svasthya/projection"
	"svasthya/repositories"
	"svasthya/resources"
	"svasthya/runtime"
	"svasthya/runtime/workers"
	"svasthya/sink"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wellness terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes every component and blocks until a shutdown signal.
// Returning instead of calling os.Exit lets the defers flush BadgerDB
// and Bluge before the process exits.
func run() (int, error) {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	clock := clockwork.NewRealClock()
	ctx := context.Background()

	// Storage.
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("closing BadgerDB")
		_ = db.Close()
	}()

	blugeCfg := bluge.DefaultConfig(config.BlugeFilepath)
	blugeWriter, err := bluge.OpenWriter(blugeCfg)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("closing Bluge")
		_ = blugeWriter.Close()
	}()

	library := resources.NewLibrary(logger, blugeWriter)
	if err := library.Index(resources.SeedResources()...); err != nil {
		return exitRuntime, fmt.Errorf("resource indexing failed: %w", err)
	}

	// Chat state.
	store := chat.NewStore(logger, clock, config.DebounceDuration, config.BufferSize)
	store.LoadGroups(chat.SeedGroups(time.Now().UTC()))
	store.SetCurrentParticipant(chat.MockParticipants[0])

	transcripts := repositories.NewTranscriptRepository(db, logger, config.LimitMessages)
	authRepo := repositories.NewAuthRepository(db)

	// Mentor authentication.
	authService, err := buildAuthService(logger, authRepo, config)
	if err != nil {
		return exitRuntime, err
	}
	if state, ok := authService.Restore(); ok {
		logger.Info("restored mentor session", "mentor", state.Mentor.ID)
	}

	// Crisis gate and companion.
	phrases, err := crisis.LoadPhrases()
	if err != nil {
		return exitRuntime, fmt.Errorf("crisis phrase loading failed: %w", err)
	}
	detector, err := crisis.NewDetector(phrases.Phrases, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("crisis detector init failed: %w", err)
	}

	primary, fallback, err := buildProviders(ctx, config)
	if err != nil {
		return exitRuntime, err
	}
	dispatcher := companion.NewDispatcher(logger, clock, detector, primary, fallback)
	logger.Info("companion ready", "status", dispatcher.Status())

	// Runtime.
	registry := runtime.NewRegistry()
	timeline := projection.NewTimeline("group-1")
	registry.Subscribe(chat.MockParticipants[0].ID, "group-1", timeline)

	fanout := workers.NewEventFanout(logger, store.Events(), registry).
		Add(sink.NewDiskSink(transcripts, logger))

	sup := workers.NewSupervisor(logger)
	sup.Add(
		fanout,
		workers.NewTypingSweeper(logger, clock, config.SweepInterval, store),
		workers.NewConnectionWorker(logger, clock, config.ConnectDelay, store),
		workers.NewHealthWorker(logger, config.MetricInterval),
		&repl{in: os.Stdin, out: os.Stdout, store: store, dispatcher: dispatcher, room: "group-1"},
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		logger.Info("starting supervisor")
		sup.Run(ctx)
		close(done)
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")
	sup.Stop()
	<-done

	return exitOK, nil
}

// buildAuthService provisions the single built-in mentor account. The
// password comes from the environment so no hash ships in the binary.
func buildAuthService(logger *slog.Logger, repo repositories.AuthRepository,
	config internal.Config) (*auth.Service, error) {
	email := lo.CoalesceOrEmpty(config.MentorEmail, "kavita.rao@svasthya.app")
	password := lo.CoalesceOrEmpty(config.MentorPassword, "change-me-on-first-run")

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("mentor provisioning failed: %w", err)
	}

	mentor := chat.MockParticipants[4]
	students := chat.MockParticipants[:4]
	return auth.NewService(logger, repo, []byte(config.AuthSecret),
		config.AuthTokenDuration, auth.Credential{
			Mentor:       mentor,
			Email:        email,
			PasswordHash: hash,
			Students:     students,
		}), nil
}

func buildProviders(ctx context.Context, config internal.Config) (companion.Provider, companion.Provider, error) {
	var primary, fallback companion.Provider
	if config.GeminiAPIKey != "" {
		p, err := companion.NewGeminiProvider(ctx, config.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("primary provider init failed: %w", err)
		}
		primary = p
	}
	if config.GeminiBackupKey != "" {
		p, err := companion.NewGeminiProvider(ctx, config.GeminiBackupKey)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback provider init failed: %w", err)
		}
		fallback = p
	}
	return primary, fallback, nil
}
