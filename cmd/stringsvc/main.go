// Package main is the string analyzer service entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stringanalyzer/stringsvc/internal/analysis"
	"github.com/stringanalyzer/stringsvc/internal/api"
	"github.com/stringanalyzer/stringsvc/internal/config"
	"github.com/stringanalyzer/stringsvc/internal/database"
	"github.com/stringanalyzer/stringsvc/internal/nlquery"
)

var version = "dev"

func main() {
	defaultPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}

	configPath := flag.String("config", defaultPath, "path to config file")
	generate := flag.Bool("generate-config", false, "write a sample config file and exit")
	flag.Parse()

	if *generate {
		if err := config.GenerateSample(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("sample config written to %s\n", *configPath)
		return
	}

	cfg, err := loadConfig(*configPath, !flagSet("config"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.Logging)

	if err := serve(cfg); err != nil {
		log.Error().Err(err).Msg("Server stopped")
		os.Exit(1)
	}
}

// serve runs the HTTP server until SIGINT or SIGTERM, or until it fails to listen.
// The store is closed on every return path.
func serve(cfg *config.Config) error {
	store, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	engine := analysis.NewEngine(analysis.NewAnalyzer(analysis.SystemClock{}), store)
	api.Version = version

	log.Debug().Strs("rules", nlquery.Rules()).Msg("Natural language rules loaded")

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(cfg, engine),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("store", cfg.Database.Driver).
			Str("version", version).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// flagSet reports whether the named flag was given on the command line.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// loadConfig reads path. When the file is missing and the caller did not
// name it explicitly, defaults plus environment overrides are used.
func loadConfig(path string, isDefault bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !isDefault || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = config.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Format == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
