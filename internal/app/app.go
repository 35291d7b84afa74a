package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"log-report/internal/aggregators"
	internalhttp "log-report/internal/http"
	"log-report/internal/ingestors"
	"log-report/internal/models"
	"log-report/internal/parsers"
	"log-report/internal/reports"
	"log-report/internal/shared/configs"
	"log-report/internal/shared/filestorages"
	"log-report/internal/shared/loggers"
	"log-report/internal/shared/timers"
	"log-report/internal/shared/ulid"
	"log-report/internal/sources"
	"log-report/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	logFile   *os.File
	console   io.Writer

	logStorage     filestorages.FileStorage
	reportStorage  filestorages.FileStorage
	fileAggregator ingestors.FileAggregator
	reportBuilder  reports.ReportBuilder
	runs           *runTracker

	server   *http.Server
	listener net.Listener
}

// New creates and initializes a new App instance. The console summary is written to console.
func New(config *configs.Config, console io.Writer) (*App, error) {
	var logFile *os.File
	var extraLogWriters []io.Writer
	if config.Log.File != "" {
		f, err := loggers.OpenFile(config.Log.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		extraLogWriters = append(extraLogWriters, f)
	}

	appLogger, err := loggers.New(config.Log.Level, extraLogWriters...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger = appLogger.With().
		Str(loggers.FieldApp, "log-report").
		Logger()

	logStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize log storage: %w", err)
	}
	reportStorage, err := filestorages.NewFileStorage(config.Report.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize report storage: %w", err)
	}

	template, err := reports.LoadTemplate(config.Report.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to load report template: %w", err)
	}
	reportStore := stores.NewReportStore(reportStorage)
	reportBuilder := reports.NewReportBuilder(reportStore, template, config.Report.OutputName)

	app := &App{
		config:         config,
		appLogger:      appLogger,
		logFile:        logFile,
		console:        console,
		logStorage:     logStorage,
		reportStorage:  reportStorage,
		fileAggregator: ingestors.NewFileAggregator(parsers.NewLineExtractor()),
		reportBuilder:  reportBuilder,
		runs:           newRunTracker(),
	}

	if config.Metrics.Addr != "" {
		httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
		app.server = &http.Server{
			Addr:              config.Metrics.Addr,
			Handler:           internalhttp.NewRouter(app.runs, httpLogger),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// StartDiagnostics serves /metrics, /healthz and /runs in the background when metrics.addr is set.
func (app *App) StartDiagnostics() error {
	if app.server == nil {
		return nil
	}

	listener, err := net.Listen("tcp", app.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.server.Addr, err)
	}
	app.listener = listener
	app.appLogger.Info().Msgf("Serving diagnostics on %s", listener.Addr())

	go func() {
		if err := app.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.appLogger.Error().Err(err).Msg("diagnostics server failed")
		}
	}()
	return nil
}

// Run builds one report from the given source keys, or from every file matching
// collector.pattern when keys is empty. Unreadable sources are listed in the returned
// status and do not fail the run.
func (app *App) Run(ctx context.Context, keys []string) (models.RunStatus, error) {
	runID := ulid.NewULID()
	logger := app.appLogger.With().Str(loggers.FieldRunID, runID).Logger()
	ctx = logger.WithContext(ctx)
	defer timers.Track(ctx, "run")()

	app.runs.start(runID)
	logger.Info().
		Msgf("Building report (log_level=%s, file_storage_root_dir=%s, report_output_dir=%s)",
			app.config.Log.Level,
			app.config.FileStorage.RootDir,
			app.config.Report.OutputDir)

	status, err := app.run(ctx, runID, keys)
	if err != nil {
		status = app.runs.fail(err)
		logger.Error().Err(err).Str(loggers.FieldErrorCode, status.ErrorCode).Msg("report build failed")
		return status, err
	}
	return status, nil
}

func (app *App) run(ctx context.Context, runID string, keys []string) (models.RunStatus, error) {
	srcs, err := sources.Discover(ctx, app.logStorage, keys, app.config.Collector.Pattern)
	if errors.Is(err, sources.ErrNoSources) {
		return models.RunStatus{}, errNoSources(err)
	}
	if err != nil {
		return models.RunStatus{}, errInternalSourceLookup(err)
	}

	opts := aggregators.CollectorOptions{
		Workers:       app.config.Collector.Workers,
		SourceTimeout: time.Duration(app.config.Collector.SourceTimeout) * time.Second,
	}
	if app.config.Report.KeepPartials {
		opts.PartialStore = stores.NewPartialResultStore(app.reportStorage, runID)
	}
	collector := aggregators.NewParallelCollector(app.fileAggregator, opts)

	collection, err := collector.Collect(ctx, srcs)
	if err != nil {
		return models.RunStatus{}, err
	}

	report, err := app.reportBuilder.Build(ctx, collection.Result)
	if err != nil {
		return models.RunStatus{}, err
	}

	reports.WriteConsoleSummary(app.console, report.Records, collection.Result, app.config.Report.ConsoleTop)
	for _, failure := range collection.Failures {
		fmt.Fprintf(app.console, "skipped %s: %v\n", failure.Source, failure.Err)
	}

	return app.runs.succeed(collection, report.Key, len(srcs)), nil
}

// Shutdown stops the diagnostics server and closes the log file.
func (app *App) Shutdown(ctx context.Context) error {
	if app.server != nil && app.listener != nil {
		app.appLogger.Info().Msg("Shutting down diagnostics server...")
		if err := app.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}
	if app.logFile != nil {
		if err := app.logFile.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
	}
	return nil
}
