package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-desktop/internal/server"
)

func newServeCmd(ctx context.Context, ro *RootOpts, version string) *cobra.Command {
	var (
		addr    string
		port    int
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP bridge for browser clients",
		Long: `Start an HTTP server that provides:
  - POST /api/<operation> for every bridge operation
  - GET /api/progress and /api/history for polling
  - WebSocket /ws for live progress updates

The server binds to 127.0.0.1 by default. Browser pages from other origins
need --origin.

Example:
  yt-desktop serve
  yt-desktop serve --port 9000 --origin http://localhost:5173`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(ctx, ro, version, func(rt *Runtime) error {
				cfg := server.Config{
					Addr:           rt.Config.Server.Addr,
					Port:           rt.Config.Server.Port,
					AllowedOrigins: rt.Config.Server.AllowedOrigins,
					Version:        version,
				}
				if cmd.Flags().Changed("addr") {
					cfg.Addr = addr
				}
				if cmd.Flags().Changed("port") {
					cfg.Port = port
				}
				if len(origins) > 0 {
					cfg.AllowedOrigins = origins
				}

				fmt.Printf("%s %s, HTTP bridge mode (engine: %s)\n", Brand, version, rt.Engine.Name())
				srv := server.New(cfg, rt.Bridge, rt.Store)
				return srv.ListenAndServe(ctx)
			})
		},
	}

	def := server.DefaultConfig()
	cmd.Flags().StringVar(&addr, "addr", def.Addr, "Address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", def.Port, "Port to listen on")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed CORS origin (repeatable)")

	return cmd
}
