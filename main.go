package main

import (
	"context"
	"fintrack/config"
	"fintrack/config/setup"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fintrack",
	Short: "Personal income and expense tracker",
	Long: `fintrack records income and expenses in user-defined categories and
serves reports over a JSON API. Running it without a command starts the server.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().String("prefs", "", "preferences file (overrides PREFS_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(prefsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	config.Load()

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		config.AppConfig.DBPath = db
	}
	if prefs, _ := cmd.Flags().GetString("prefs"); prefs != "" {
		config.AppConfig.PrefsPath = prefs
	}

	slog.SetDefault(setupLogger(config.AppConfig))
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.AppConfig
	logger := slog.Default()

	db, err := setup.InitDatabase(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	application, err := setup.InitApp(db, cfg, logger)
	if err != nil {
		setup.Shutdown(nil, db, logger)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app := setup.NewFiberApp(cfg.IsProduction(), logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err = <-serverErr:
		logger.Error("server failed", "error", err)
	case <-cmd.Context().Done():
		logger.Info("shutting down server gracefully")
	}

	// Stop background work before the database goes away
	setup.Shutdown(application, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if shutdownErr := app.ShutdownWithContext(ctx); shutdownErr != nil {
		logger.Error("server forced to shutdown", "error", shutdownErr)
	}

	setup.Shutdown(nil, db, logger)
	logger.Info("server stopped")
	return err
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := setup.InitDatabase(config.AppConfig.DBPath, slog.Default())
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     cfg.SlogLevel(),
		AddSource: cfg.Env == "development",
	}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
