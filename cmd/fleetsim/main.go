package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/app"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fleetsim",
		Short:         "Hybrid cloud pod fleet simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(newServeCmd(), newVersionCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	var configName, configDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation loop and the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.InitLogger()
			fxApp, err := app.NewRestApp(configName, configDir)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := fxApp.Start(ctx); err != nil {
				return fmt.Errorf("start app: %w", err)
			}
			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), fxApp.StopTimeout())
			defer cancel()
			return fxApp.Stop(stopCtx)
		},
	}
	cmd.Flags().StringVar(&configName, "config-name", "sim_config", "config file name without extension")
	cmd.Flags().StringVar(&configDir, "config-dir", "", "directory holding the config file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
