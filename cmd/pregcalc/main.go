package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/pregcalc/internal/api"
	"github.com/terraincognita07/pregcalc/internal/cli"
	"github.com/terraincognita07/pregcalc/internal/config"
	"github.com/terraincognita07/pregcalc/internal/i18n"
	"github.com/terraincognita07/pregcalc/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pregcalc",
		Short:         "Pregnancy date calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(tablesCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
}

func calcCmd() *cobra.Command {
	options := cli.CalcOptions{}
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate pregnancy dates and print them as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			location, err := cfg.Location()
			if err != nil {
				return err
			}
			logger := logging.Component(logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty), logging.ComponentCLI)

			tables, err := cli.LoadTables(cfg.ReferenceDBPath, logger)
			if err != nil {
				return err
			}
			manager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
			if err != nil {
				return fmt.Errorf("i18n init failed: %w", err)
			}

			options.Location = location
			return cli.RunCalcCommand(cmd.OutOrStdout(), options, tables, manager, time.Now())
		},
	}

	cmd.Flags().StringVar(&options.LastPeriod, "last-period", "", "First day of the last menstrual period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&options.CycleLength, "cycle", "", "Average cycle length in days (20-40, default 28)")
	cmd.Flags().StringVar(&options.WeightKg, "weight", "", "Pre-pregnancy weight in kg")
	cmd.Flags().StringVar(&options.HeightCm, "height", "", "Height in cm")
	cmd.Flags().StringVar(&options.BMI, "bmi", "", "Pre-pregnancy BMI (overrides weight and height)")
	cmd.Flags().StringVar(&options.Today, "today", "", "Calculate as of this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&options.Language, "lang", "", "Label language (ru, en)")
	_ = cmd.MarkFlagRequired("last-period")
	return cmd
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect and store reference tables",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the embedded or stored reference tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			return cli.RunTablesValidateCommand(cmd.OutOrStdout(), dbPath, commandLogger(cmd))
		},
	}
	validateCmd.Flags().String("db", "", "SQLite reference store (default: embedded tables)")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Write reference tables into a SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			source, _ := cmd.Flags().GetString("from")
			return cli.RunTablesSeedCommand(cmd.OutOrStdout(), dbPath, source, commandLogger(cmd))
		},
	}
	seedCmd.Flags().String("db", "", "SQLite reference store to write")
	seedCmd.Flags().String("from", "", "YAML tables document (default: embedded tables)")
	_ = seedCmd.MarkFlagRequired("db")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the reference tables as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, _ := cmd.Flags().GetString("db")
			return cli.RunTablesExportCommand(cmd.OutOrStdout(), dbPath, commandLogger(cmd))
		},
	}
	exportCmd.Flags().String("db", "", "SQLite reference store (default: embedded tables)")

	cmd.AddCommand(validateCmd, seedCmd, exportCmd)
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func commandLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.Component(logging.NewWithWriter(cmd.ErrOrStderr(), "warn", false), logging.ComponentCLI)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	appLogger := logging.Component(logger, logging.ComponentApp)

	location, err := cfg.Location()
	if err != nil {
		return err
	}
	time.Local = location

	tables, err := cli.LoadTables(cfg.ReferenceDBPath, logging.Component(logger, logging.ComponentDB))
	if err != nil {
		appLogger.Error().Err(err).Msg("reference tables rejected")
		return err
	}

	i18nManager, err := i18n.NewEmbeddedManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(tables, i18nManager, location, logging.Component(logger, logging.ComponentWeb))
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	if cfg.SharingEnabled() {
		handler.WithShareTokens(cfg.ShareSecret, cfg.ShareTokenTTL)
	}

	app := api.NewApp(handler, logging.Component(logger, logging.ComponentWeb))

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	appLogger.Info().
		Str("port", cfg.Port).
		Str("tz", location.String()).
		Str("reference_version", tables.Version()).
		Bool("sharing", cfg.SharingEnabled()).
		Msg("pregcalc listening")

	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}
