package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/office-dates/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	serverURL  string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "office-dates",
		Short:         "Office calendar query service",
		Long:          "Answer questions about scheduled office days from a CSV dataset, locally or via a running server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.Client.ServerURL = serverURL
			}

			logger, err = newLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search for config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Query a running server at this URL instead of the local dataset")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(datesCmd())
	rootCmd.AddCommand(nextCmd())
	rootCmd.AddCommand(lastCmd())
	rootCmd.AddCommand(toolsCmd())

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(logCfg config.LogConfig) (*zap.Logger, error) {
	level := parseLevel(logCfg.Level)
	if logCfg.File != "" {
		return initFileLogger(logCfg.File, level)
	}
	return initLogger(logCfg.Format, level)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}

func initLogger(format string, level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

func initFileLogger(logFile string, level zapcore.Level) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		level,
	)

	return zap.New(core), nil
}
