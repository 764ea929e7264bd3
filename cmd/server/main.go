package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// flags override environment configuration when set
type flags struct {
	port     string
	host     string
	backend  string
	capture  string
	seedFile string
	logLevel string
	dev      bool
}

func newRootCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "InkOS shell backend",
		Long: "Serves the desktop shell API and dispatches pen gestures to the\n" +
			"inference backend. Configuration comes from the environment; flags override it.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, f)
		},
	}

	f.register(cmd)
	cmd.AddCommand(newCheckSeedCommand())
	return cmd
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.port, "port", "", "Server port (env PORT)")
	fs.StringVar(&f.host, "host", "", "Listen host (env HOST)")
	fs.StringVar(&f.backend, "backend", "", "Inference backend: gemini, gateway or scripted (env INFERENCE_BACKEND)")
	fs.StringVar(&f.capture, "capture", "", "Capture mode: frame, raster, auto or none (env CAPTURE_MODE)")
	fs.StringVar(&f.seedFile, "seed", "", "Seed file, .yaml or .toml (env SEED_FILE)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (env LOG_LEVEL)")
	fs.BoolVar(&f.dev, "dev", false, "Development mode: colored console logs at debug level")
}

// apply copies set flags over cfg
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.Server.Port = f.port
	}
	if changed("host") {
		cfg.Server.Host = f.host
	}
	if changed("backend") {
		cfg.Inference.Backend = f.backend
	}
	if changed("capture") {
		cfg.Capture.Mode = f.capture
	}
	if changed("seed") {
		cfg.Seed.File = f.seedFile
	}
	if changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if changed("dev") {
		cfg.Logging.Development = f.dev
	}
}

func serve(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		if err := logger.SetLevel(f.logLevel); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.NewServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return err
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
