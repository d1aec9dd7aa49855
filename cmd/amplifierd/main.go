// @title        Hegel Amplifier Control API
// @version      1.0
// @description  Control and monitor a Hegel integrated amplifier over its TCP control port.
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "hegel_amplifier/docs"
	"hegel_amplifier/internal/amplifier"
	"hegel_amplifier/internal/config"
	"hegel_amplifier/internal/handlers"
	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/repository"
	"hegel_amplifier/internal/repository/db"
	"hegel_amplifier/internal/server"
	"hegel_amplifier/internal/service"
)

// httpWriteSlack is added to the discovery budget for the HTTP write timeout.
const httpWriteSlack = 5 * time.Second

func main() {
	configDir := pflag.String("config", "", "directory holding config.yml (default: ./configs, .)")
	pflag.Parse()

	var paths []string
	if *configDir != "" {
		paths = append(paths, *configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	// history lives for the process lifetime only
	sqlDB, err := openDB()
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	ctrl := amplifier.New(cfg.Amplifier.Name, cfg.Amplifier.Params(), log,
		cfg.Amplifier.TransportOptions(),
		amplifier.WithMaxSources(cfg.Discovery.MaxSources),
		amplifier.WithDiscoveryTimeout(cfg.Discovery.Timeout),
	)

	log.Infow("amplifier_configured",
		"name", ctrl.Name(),
		"addr", cfg.Amplifier.Params().Addr(),
		"features", ctrl.SupportedFeatures().Names(),
		"poll_interval", cfg.Poll.Interval,
	)

	repos := repository.NewRepository(sqlDB)
	services := service.NewService(repos, ctrl, log.Named("service"))
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startBackground(ctx, cfg, services, log)

	srv := &server.Server{WriteTimeout: cfg.Discovery.Timeout + httpWriteSlack}
	runHTTPServer(srv, cfg.HTTP.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func openDB() (*sql.DB, error) {
	return db.InitDB(db.MemoryDSN("amplifier_history"))
}

// startBackground optionally discovers sources, then polls until ctx ends.
func startBackground(ctx context.Context, cfg *config.Config, services *service.Service, log *logger.Logger) {
	if cfg.Discovery.OnStart {
		if names, err := services.Discovery.DiscoverSources(ctx); err != nil {
			log.Warnw("startup_discovery_failed", "err", err, "found", len(names))
		}
	}
	services.Poller.Run(ctx, cfg.Poll.Interval)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop polling and any running discovery
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
