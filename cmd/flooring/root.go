package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"flooring/config"
	"flooring/internal/audit"
	"flooring/internal/catalog"
	"flooring/internal/export"
	"flooring/internal/models"
	"flooring/internal/service"
	"flooring/internal/store"
	"flooring/internal/util"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// app holds the state shared by every command of one CLI run
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	svc *service.OrderService
	tp  *sdktrace.TracerProvider
}

// run executes the CLI with args and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.close()

	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", errorMessage(err))
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flooring",
		Short: "Manage flooring orders stored in per-date order files",
		Long: `flooring records, edits and removes flooring orders. Orders are kept in
one file per order date, priced from the product and tax catalogs, and
every change is written to an audit trail.

Example Usage:
  flooring orders list --date 06-01-2026
  flooring orders add --date 06-01-2026 --customer "Ada Lovelace" --state TX --product Tile --area 100
  flooring export --format xlsx`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "config.yaml", "Path to the configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.ordersCmd(),
		a.exportCmd(),
		a.productsCmd(),
		a.taxesCmd(),
		a.nextNumberCmd(),
		versionCmd(),
	)
	return root
}

// setup loads configuration and wires the order service
func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.App.LogLevel
	if a.verbose {
		level = "debug"
	}
	if err := util.InitLogger(cfg.App.Env, level, zap.String("session_id", uuid.NewString())); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tp, err := util.InitTracer("flooring", cfg.Observ.JaegerEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	a.tp = tp

	orderStore, err := store.NewStore(cfg.Storage.OrdersDir)
	if err != nil {
		return err
	}

	minArea, err := cfg.MinArea()
	if err != nil {
		return err
	}

	a.svc = service.NewOrderService(
		orderStore,
		catalog.NewProductReader(cfg.ProductsFile()),
		catalog.NewTaxReader(cfg.TaxesFile()),
		export.NewWriter(cfg.Storage.BackupDir),
		audit.NewFileWriter(cfg.Storage.AuditFile),
		service.WithMinArea(minArea),
	)

	util.GetLogger().Debug("Configuration loaded",
		zap.String("orders_dir", cfg.Storage.OrdersDir),
		zap.String("data_dir", cfg.Storage.DataDir))
	return nil
}

// close flushes telemetry. It runs after every command, failed or not.
func (a *app) close() {
	logger := util.GetLogger()

	if a.cfg != nil && a.cfg.Observ.MetricsFile != "" {
		if err := util.WriteMetrics(a.cfg.Observ.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics", zap.Error(err))
		}
	}

	if a.tp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}

	util.SyncLogger()
}

// errorMessage shortens not-found and validation failures to the detail after
// their sentinel. Other failures keep their full cause chain.
func errorMessage(err error) string {
	msg := err.Error()
	for _, kind := range []error{models.ErrNotFound, models.ErrValidation} {
		if !errors.Is(err, kind) {
			continue
		}
		prefix := kind.Error() + ": "
		if i := strings.LastIndex(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
		return msg
	}
	return msg
}
