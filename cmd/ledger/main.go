// Command ledger serves the in-memory account ledger over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

var version = "dev"

func main() {
	if err := executeContext(context.Background(), os.Stdout, os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:           "ledger",
		Short:         "ledger keeps account balances and their transaction history in memory",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", "./configs", "directory holding app.env")

	rootCmd.AddCommand(newServeCmd(&configDir))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newServeCmd(configDir *string) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configpkg.Load(*configDir)
			if err != nil {
				log.Error().Err(err).Msg("cannot load config")
				return err
			}

			if address != "" {
				config.ServerAddress = address
			}

			logger := middleware.CreateLogger(config)

			if config.Environment != configpkg.EnvDevelopment {
				gin.SetMode(gin.ReleaseMode)
			}

			server, err := httpserver.New(logger, config)
			if err != nil {
				logger.Error().Err(err).Msg("cannot create server")
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info().Str("address", config.ServerAddress).Msg("LEDGER API SERVER HAS STARTED")

			if err := server.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server stopped with error")
				return err
			}

			logger.Info().Msg("server stopped")

			return nil
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "override SERVER_ADDRESS")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ledger version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func executeContext(ctx context.Context, out io.Writer, args ...string) error {
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}
