package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/server"
)

// serveCommand creates the command that exposes a session over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [scene]",
		Short: "Serve a scene over HTTP",
		Long: `Serve a scene over HTTP until interrupted.

The embedding editor posts {"type":"updatePrompt","prompt":"..."} to
/v1/messages to set the style-transfer prompt and triggers actions with
POST /v1/actions/{name} or POST /v1/keys. The scene file is written back
on shutdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, path, workspaceOptions{})
			if err != nil {
				return err
			}
			defer ws.Close()

			if addr == "" {
				addr = ws.cfg.Server.Addr
			}
			srv := server.New(ws.session, server.WithLogger(ws.logger))
			printInfo("Serving %s on %s", displayPath(path), StyleLink.Render("http://"+addr))
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return err
			}

			if path == "" {
				return nil
			}
			return c.save(ws)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func displayPath(path string) string {
	if path == "" {
		return "an empty scene"
	}
	return path
}
