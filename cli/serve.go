package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourusername/reserved/handlers"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reserved username HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt := getRuntime(cmd)
			if addr != "" {
				rt.cfg.Server.Addr = addr
			}
			reg, err := rt.registry(cmd)
			if err != nil {
				return err
			}
			app := handlers.NewApp(reg, rt.cfg, rt.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					rt.log.Warnw("server shutdown", "error", err)
				}
			}()

			rt.log.Infow("server starting", "addr", rt.cfg.Server.Addr, "reserved", reg.Count())
			return app.Listen(rt.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
