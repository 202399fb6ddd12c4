package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewApp(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.Run(ctx)
	},
}

func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)
}
