// Command jwtstub serves canned HTTP responses chosen by jwt-matcher stubs.
//
// Stubs are read from the JSON file named by STUBS_FILE. Each request is
// answered by the first mapping whose request pattern and jwt-matcher
// parameters match it, and with 404 when none does.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	jwtmatcher "github.com/masonm/jwt-matcher"
	"github.com/masonm/jwt-matcher/internal/stubs"
)

func main() {
	ctx := context.Background()

	cfg, err := LoadConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration load failed")
	}

	if err := configureLogging(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("logging configuration failed")
	}

	if err := launchServer(cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}

func launchServer(cfg Config) error {
	file, err := stubs.Load(cfg.Stubs.File)
	if err != nil {
		return fmt.Errorf("stubs load failed: %w", err)
	}
	log.Info().Str("file", cfg.Stubs.File).Int("mappings", len(file.Mappings)).Msg("stubs loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := configureServerRoutes(file, registry, log.Logger)
	if err != nil {
		return fmt.Errorf("server routing configuration failed: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    20 << 10, // 20 KB
	}

	return serveHTTP(cfg.Server, server)
}

func configureServerRoutes(file *stubs.File, registry *prometheus.Registry, logger zerolog.Logger) (http.Handler, error) {
	matcher, err := jwtmatcher.New(
		jwtmatcher.WithLogger(jwtmatcher.NewZerologLogger(logger)),
		jwtmatcher.WithMetrics(jwtmatcher.NewPrometheusMetrics(registry)),
	)
	if err != nil {
		return nil, fmt.Errorf("matcher configuration failed: %w", err)
	}

	router, err := stubs.NewRouter(matcher, file.Mappings)
	if err != nil {
		return nil, fmt.Errorf("stub configuration failed: %w", err)
	}

	logged := alice.New(
		hlog.NewHandler(logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /__admin/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /__admin/mappings", handleGetMappings(router))
	mux.Handle("GET /__admin/health", handleHealthCheck())
	mux.Handle("/", logged.Then(router))

	return mux, nil
}

func handleGetMappings(router *stubs.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(stubs.File{Mappings: router.Mappings()})
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("could not encode mappings")
		}
	})
}

func handleHealthCheck() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func configureLogging(cfg LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	switch cfg.Format {
	case "json":
	case "console":
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or console", cfg.Format)
	}

	log.Logger = logger.Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	return nil
}
