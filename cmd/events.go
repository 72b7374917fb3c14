package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/catalog/internal/app"
	"github.com/nguyentranbao-ct/catalog/internal/kafka"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print catalog change events from Kafka as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.New(
			fx.Provide(func() kafka.EventHandler {
				return kafka.NewEventPrinter(os.Stdout)
			}),
			fx.Invoke(kafka.StartConsumeEvents),
		)
		if err := a.Err(); err != nil {
			return err
		}
		a.Run()
		return nil
	},
}
