package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The logger is attached to the command context before any subcommand runs
// and is available through loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "drawkit runs whiteboard actions on scene files",
		Long: `drawkit runs the editor's clipboard, delete and AI style-transfer actions
against .excalidraw scene files, from the shell or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/drawkit/config.toml)")
	root.PersistentFlags().BoolVar(&c.dryRun, "dry-run", false, "do not write the scene file back")

	// Register all subcommands
	root.AddCommand(c.actionsCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.keyCommand())
	root.AddCommand(c.stylizeCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
