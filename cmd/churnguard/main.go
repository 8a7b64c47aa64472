package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Leopold1975/churnguard/internal/churnguard/app"
	"github.com/Leopold1975/churnguard/internal/pkg/churnmodel"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/pgtools"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:           "churnguard",
		Short:         "Customer churn CRM backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "Apply user store migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(configPath)
			if err != nil {
				return err
			}

			return pgtools.ApplyMigration(cfg.PostgresDB)
		},
	}, &cobra.Command{
		Use:   "check-model",
		Short: "Load and validate the model artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(configPath)
			if err != nil {
				return err
			}

			m, err := churnmodel.Load(cfg.Model)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "model ok: %d input features, %d trees\n",
				m.Classifier.NFeatures, len(m.Classifier.Trees))

			return nil
		},
	})

	return root
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.New(configPath)
	if err != nil {
		return err
	}

	interruptSignals := []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := signal.NotifyContext(ctx, interruptSignals...)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	a.Run(ctx)

	return nil
}
