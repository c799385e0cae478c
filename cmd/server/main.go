package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/cityops-io/cityops-ce/internal/api"
	"github.com/cityops-io/cityops-ce/internal/config"
	"github.com/cityops-io/cityops-ce/internal/repository"
	"github.com/cityops-io/cityops-ce/internal/runner"
	"github.com/cityops-io/cityops-ce/internal/runner/tasks"
	"github.com/cityops-io/cityops-ce/internal/service"
	"github.com/cityops-io/cityops-ce/internal/version"
)

// application is everything main wires together.
type application struct {
	cfg    *config.Config
	source *repository.MemoryRecordSource
	engine *gin.Engine
	runner *runner.Runner
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	source, err := repository.NewMemoryRecordSource(ctx, repository.FileLoader(cfg.Source.SeedFile))
	if err != nil {
		return nil, err
	}

	modes, err := cfg.FilterModes()
	if err != nil {
		return nil, err
	}
	services, err := service.NewServices(source, modes)
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(services, cfg, source)
	router.SetupRoutes()

	registry := runner.NewTaskRegistry()
	registry.Register(tasks.NewSourceRefreshTask(source, cfg.Source.RefreshSchedule))

	return &application{
		cfg:    cfg,
		source: source,
		engine: router.GetEngine(),
		runner: runner.NewRunner(registry),
	}, nil
}

// reloadOnChange swaps in the new seed file when the config is edited.
// Settings that shape the router or services need a restart.
func (a *application) reloadOnChange(ctx context.Context) func(old, updated *config.Config) {
	return func(old, updated *config.Config) {
		if old.Source.SeedFile != updated.Source.SeedFile {
			if err := a.source.SwitchLoader(ctx, repository.FileLoader(updated.Source.SeedFile)); err != nil {
				log.Printf("Ignoring new seed file %q: %v", updated.Source.SeedFile, err)
			} else {
				log.Printf("Loaded records from %q", updated.Source.SeedFile)
			}
		}
		if !reflect.DeepEqual(old.Filters, updated.Filters) || old.Server != updated.Server {
			log.Println("Filter or server settings changed; restart to apply")
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	if err := config.Load(configPath); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.Get()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.App.IsDevelopment() {
		log.Println("Running in development mode")
	}

	warnings, err := config.ValidateDeployment(cfg)
	for _, w := range warnings {
		log.Printf("Warning: %s", w)
	}
	if err != nil {
		log.Fatalf("Deployment check failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	config.OnChange(app.reloadOnChange(ctx))

	if err := app.runner.Schedule(ctx); err != nil {
		log.Fatalf("Failed to schedule background tasks: %v", err)
	}
	go app.refreshOnHangup(ctx)

	if err := app.serve(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// refreshOnHangup reloads the seed file on SIGHUP.
func (a *application) refreshOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-hup:
			log.Println("SIGHUP received, refreshing records")
			_ = a.runner.RunNow(ctx, tasks.SourceRefreshName)
		case <-ctx.Done():
			return
		}
	}
}

func (a *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.GetServerAddr(),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting %s %s on %s", a.cfg.App.Name, version.Full(), srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		a.runner.Stop()
		if ok {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.runner.Stop()
	return err
}
