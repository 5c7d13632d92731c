package main

import (
	"context"
	stdLog "log"
	"os"

	"github.com/Astemirdum/library-lending/lending/app"
	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// @title Library lending API
// @version 1.0
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		driver   string
	)
	options := func() ([]config.Option, error) {
		var ops []config.Option
		if logLevel != "" {
			level, err := zapcore.ParseLevel(logLevel)
			if err != nil {
				return nil, err
			}
			ops = append(ops, config.WithLogLevel(level))
		}
		if driver != "" {
			ops = append(ops, config.WithDriver(driver))
		}
		return ops, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the lending HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops, err := options()
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), config.NewConfig(ops...))
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops, err := options()
			if err != nil {
				return err
			}
			return app.Migrate(cmd.Context(), config.NewConfig(ops...))
		},
	}

	root := &cobra.Command{
		Use:          "lending",
		Short:        "Library lending service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&driver, "driver", "", "override DB_DRIVER (postgres, memory)")
	root.AddCommand(serve, migrate)
	return root
}
