package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/catalog/internal/app"
	"github.com/nguyentranbao-ct/catalog/internal/server"
	"github.com/nguyentranbao-ct/catalog/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Product catalog service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a := app.Invoke(server.StartServer)
	if err := a.Err(); err != nil {
		return err
	}
	a.Run()
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd, listCmd, eventsCmd)
}

func Execute() {
	defer logger.Sync() //nolint:errcheck
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
