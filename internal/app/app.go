// Package app provides application initialization and wiring.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	httpAdapter "github.com/jobrunner/tessera/internal/adapters/http"
	"github.com/jobrunner/tessera/internal/adapters/metrics"
	"github.com/jobrunner/tessera/internal/adapters/ogr"
	"github.com/jobrunner/tessera/internal/adapters/storage"
	tlsAdapter "github.com/jobrunner/tessera/internal/adapters/tls"
	"github.com/jobrunner/tessera/internal/adapters/watcher"
	"github.com/jobrunner/tessera/internal/application"
	"github.com/jobrunner/tessera/internal/config"
	"github.com/jobrunner/tessera/internal/domain"
	"github.com/jobrunner/tessera/internal/ports/output"
)

// App holds all application components.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Source        output.ObjectStorage
	Destination   output.ObjectStorage
	Translator    *ogr.Translator
	Recent        *application.RecentLog
	Pipeline      *application.PipelineService
	Sweep         *application.SweepService
	HealthService *application.HealthService
	HTTPServer    *httpAdapter.Server
	TLSServer     *tlsAdapter.Server
	Watcher       *watcher.Watcher
	Metrics       *metrics.Collector
	MetricsServer *metrics.Server
}

// New creates and initializes a new application.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize metrics
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.NewCollector("tessera")
		app.MetricsServer = metrics.NewServer(
			cfg.Metrics.Port,
			cfg.Metrics.Path,
			logger,
		)
	}

	var metricsCollector output.MetricsCollector
	if app.Metrics != nil {
		metricsCollector = app.Metrics
	} else {
		metricsCollector = &output.NoOpMetrics{}
	}

	// Initialize storage adapters for both locations
	source, err := initStorage(ctx, cfg.Storage, cfg.Storage.Source)
	if err != nil {
		return nil, fmt.Errorf("initializing source storage: %w", err)
	}
	app.Source = source

	dest, err := initStorage(ctx, cfg.Storage, cfg.Storage.Destination)
	if err != nil {
		return nil, fmt.Errorf("initializing destination storage: %w", err)
	}
	app.Destination = dest

	// Initialize vector translator
	app.Translator = ogr.NewTranslator(ogr.Config{
		Binary:  cfg.Convert.OGR2OGRPath,
		Timeout: cfg.Convert.Timeout,
	}, logger)

	// Initialize conversion pipeline
	app.Recent = application.NewRecentLog(0)
	app.Pipeline = application.NewPipelineService(
		app.Source,
		app.Destination,
		app.Translator,
		metricsCollector,
		app.Recent,
		logger,
		application.PipelineConfig{
			ScratchDir: cfg.Convert.ScratchDir,
		},
	)

	// Initialize reconciliation sweep if enabled
	if cfg.Sweep.Enabled {
		app.Sweep = application.NewSweepService(
			app.Pipeline,
			app.Source,
			app.Destination,
			metricsCollector,
			cfg.Storage.Source.Name(),
			cfg.Sweep.Interval,
			logger,
		)
	}

	// Initialize health service
	app.HealthService = application.NewHealthService(app.Recent)

	// Initialize HTTP server
	app.HTTPServer = httpAdapter.NewServer(
		cfg.Server,
		app.Pipeline,
		app.Recent,
		app.HealthService,
		app.Sweep,
		logger,
		cfg.Storage.Source.Name(),
	)

	// Initialize TLS server if enabled
	if cfg.TLS.Enabled {
		tlsServer, err := tlsAdapter.NewServer(
			tlsAdapter.Config{
				Enabled:  cfg.TLS.Enabled,
				Domains:  cfg.TLS.Domains,
				Email:    cfg.TLS.Email,
				CacheDir: cfg.TLS.CacheDir,
				Staging:  cfg.TLS.Staging,
				DNS: tlsAdapter.DNSConfig{
					SubscriptionID:    cfg.TLS.DNS.SubscriptionID,
					ResourceGroupName: cfg.TLS.DNS.ResourceGroupName,
					ClientID:          cfg.TLS.DNS.ClientID,
				},
			},
			app.HTTPServer.Router(),
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("initializing TLS: %w", err)
		}
		app.TLSServer = tlsServer
	}

	// Initialize file watcher: in local mode the watcher stands in for the
	// cloud notifier and synthesizes events for new archives.
	if cfg.Storage.Type == "local" {
		w, err := watcher.New(
			watcher.Config{
				Paths: []string{cfg.Storage.Source.Path},
			},
			app.handleFileEvent,
			logger,
		)
		if err != nil {
			logger.Warn("failed to initialize file watcher", "error", err)
		} else {
			app.Watcher = w
		}
	}

	return app, nil
}

// Start starts all application components.
func (a *App) Start(ctx context.Context) error {
	// Start file watcher
	if a.Watcher != nil {
		if err := a.Watcher.Start(ctx); err != nil {
			a.Logger.Warn("failed to start file watcher", "error", err)
		}
	}

	// Start sweep scheduler
	if a.Sweep != nil {
		a.Sweep.Start(ctx)
	}

	// Start metrics server in background
	if a.MetricsServer != nil {
		go func() {
			if err := a.MetricsServer.Start(); err != nil && err.Error() != "http: Server closed" {
				a.Logger.Error("metrics server error", "error", err)
			}
		}()
	}

	// Start server
	if a.Config.TLS.Enabled && a.TLSServer != nil {
		return a.TLSServer.ListenAndServe(a.Config.Server.Address())
	}
	return a.HTTPServer.Start()
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.Info("shutting down application")

	// Stop watcher
	if a.Watcher != nil {
		_ = a.Watcher.Stop()
	}

	// Stop sweep scheduler
	if a.Sweep != nil {
		a.Sweep.Stop()
	}

	// Shutdown metrics server
	if a.MetricsServer != nil {
		if err := a.MetricsServer.Shutdown(ctx); err != nil {
			a.Logger.Error("metrics server shutdown error", "error", err)
		}
	}

	// Shutdown HTTP server
	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.Logger.Error("HTTP server shutdown error", "error", err)
	}

	return nil
}

// handleFileEvent turns a file system event from the watched source
// directory into a pipeline invocation.
func (a *App) handleFileEvent(ctx context.Context, event watcher.Event) error {
	a.Logger.Info("file event", "path", event.Path, "operation", event.Operation.String())

	switch event.Operation {
	case watcher.OpCreate, watcher.OpModify:
		name, err := a.relativeSourceKey(event.Path)
		if err != nil {
			a.Logger.Warn("ignoring event outside source directory", "path", event.Path, "error", err)
			return nil
		}

		_, err = a.Pipeline.Process(ctx, domain.UploadEvent{
			Bucket: a.Config.Storage.Source.Name(),
			Name:   name,
		})
		return err

	case watcher.OpDelete:
		// Removed archives need no action; outputs are never reaped.
		return nil
	}

	return nil
}

// relativeSourceKey converts an absolute watched path into the object key
// the notification for the same upload would carry.
func (a *App) relativeSourceKey(path string) (string, error) {
	base, err := filepath.Abs(a.Config.Storage.Source.Path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// initStorage initializes a storage adapter for one location. Backend
// credentials are shared; the location supplies the bucket and prefix.
func initStorage(ctx context.Context, cfg config.StorageConfig, loc config.LocationConfig) (output.ObjectStorage, error) {
	switch cfg.Type {
	case "local":
		return storage.NewLocalStorage(loc.Path), nil

	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          loc.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          loc.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})

	case "azure":
		return storage.NewAzureStorage(storage.AzureConfig{
			Container:        loc.Bucket,
			AccountName:      cfg.Azure.AccountName,
			AccountKey:       cfg.Azure.AccountKey,
			ConnectionString: cfg.Azure.ConnectionString,
			Prefix:           loc.Prefix,
		})

	case "gcs":
		return storage.NewGCSStorage(ctx, storage.GCSConfig{
			Bucket:          loc.Bucket,
			Prefix:          loc.Prefix,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
