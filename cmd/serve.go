package cmd

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/donghyeon/takkobebe/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser upload pages",
	Long: `The serve command starts an HTTP server on listen_addr with upload pages at
/takko (consolidation) and /invoice (invoice expansion). It stops on
SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		fm := newFileManager()
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.NewServer(cfg, fm, newConverter(fm), logger).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
