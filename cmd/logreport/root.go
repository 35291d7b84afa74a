package main

import (
	"context"
	"fmt"
	"time"

	"log-report/internal/app"
	"log-report/internal/shared/configs"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logreport [flags] [log.gz ...]",
		Short: "Build a per-URL latency report from gzip access logs",
		Long: `logreport reads gzip-compressed access logs, aggregates request times per URL
and writes an HTML report. Arguments are log keys relative to file_storage.root_dir;
without arguments every file matching collector.pattern is read.

Unreadable logs are skipped and listed. The exit code is non-zero only when no
report could be written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runReport,
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "path to a YAML config file")
	flags.String("root-dir", "", "directory the log keys are relative to")
	flags.String("output-dir", "", "directory the report is written to")
	flags.String("output-name", "", "report file name (default report-<YYYY.MM.DD>.html)")
	flags.IntP("workers", "w", 0, "number of logs read concurrently (default number of CPUs)")
	flags.Duration("source-timeout", 0, "abandon a log not read within this duration (whole seconds)")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-file", "", "also write diagnostics to this file")
	flags.String("metrics-addr", "", "serve /metrics, /healthz and /runs on this address")
	return cmd
}

// runReport is the runnable function of the root command.
func runReport(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	application, err := app.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := application.Shutdown(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Shutdown failed: %v\n", err)
		}
	}()

	if err := application.StartDiagnostics(); err != nil {
		return err
	}

	status, err := application.Run(cmd.Context(), args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "report written to %s (%d sources, %d skipped)\n",
		status.ReportKey, status.Sources, len(status.FailedSources))
	return nil
}

// applyFlags overrides cfg with the flags set on the command line and revalidates it.
func applyFlags(cmd *cobra.Command, cfg *configs.Config) error {
	flags := cmd.Flags()
	var err error
	str := func(name string, dst *string) {
		if err == nil && flags.Changed(name) {
			*dst, err = flags.GetString(name)
		}
	}

	str("root-dir", &cfg.FileStorage.RootDir)
	str("output-dir", &cfg.Report.OutputDir)
	str("output-name", &cfg.Report.OutputName)
	str("log-level", &cfg.Log.Level)
	str("log-file", &cfg.Log.File)
	str("metrics-addr", &cfg.Metrics.Addr)
	if err == nil && flags.Changed("workers") {
		cfg.Collector.Workers, err = flags.GetInt("workers")
	}
	if err == nil && flags.Changed("source-timeout") {
		var timeout time.Duration
		timeout, err = flags.GetDuration("source-timeout")
		if err == nil && timeout%time.Second != 0 {
			err = fmt.Errorf("--source-timeout must be a whole number of seconds, got %s", timeout)
		}
		cfg.Collector.SourceTimeout = int(timeout / time.Second)
	}
	if err != nil {
		return err
	}
	return configs.Validate(cfg)
}
