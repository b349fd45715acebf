package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/action"
)

// runCommand creates the command that performs an action by name.
func (c *CLI) runCommand() *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "run <action> <scene>",
		Short: "Perform an action on a scene file",
		Long: `Perform a registered action on a scene file and write the result back.

Clipboard actions use the system clipboard through the first installed
tool out of wl-copy, xclip, pbcopy and clip.exe.`,
		Example: `  drawkit run copy drawing.excalidraw --select rect-1
  drawkit run paste drawing.excalidraw
  drawkit run deleteSelected drawing.excalidraw --select rect-1,text-2 --dry-run`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return action.DefaultRegistry().Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAction(cmd.Context(), args[1], workspaceOptions{selection: parseSelection(selection)},
				func(ctx context.Context, ws *workspace) (action.Dispatched, bool, error) {
					res, err := ws.session.Perform(ctx, args[0])
					return res, true, err
				})
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "comma-separated element ids to select")
	return cmd
}

// keyCommand creates the command that performs the action bound to a chord.
func (c *CLI) keyCommand() *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "key <chord> <scene>",
		Short: "Perform the action bound to a key chord",
		Long: `Perform the first action whose shortcut matches chord.

Chords join modifiers and a key with "+": ctrl, cmd, mod (cmd on macOS,
ctrl elsewhere), alt and shift.`,
		Example: `  drawkit key mod+x drawing.excalidraw --select rect-1
  drawkit key alt+shift+c drawing.excalidraw`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := action.ParseKeyChord(args[0])
			if err != nil {
				return err
			}
			return c.runAction(cmd.Context(), args[1], workspaceOptions{selection: parseSelection(selection)},
				func(ctx context.Context, ws *workspace) (action.Dispatched, bool, error) {
					return ws.session.DispatchKey(ctx, ev)
				})
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "comma-separated element ids to select")
	return cmd
}

// performFunc triggers one action in ws. ok is false when nothing matched.
type performFunc func(ctx context.Context, ws *workspace) (res action.Dispatched, ok bool, err error)

// runAction opens path, triggers one action, reports it and saves the scene.
func (c *CLI) runAction(ctx context.Context, path string, opts workspaceOptions, perform performFunc) error {
	ws, err := c.openWorkspace(ctx, path, opts)
	if err != nil {
		return err
	}
	defer ws.Close()

	prog := newProgress(ws.logger)
	res, ok, err := perform(ctx, ws)
	if err != nil {
		return err
	}
	if !ok {
		printWarning("No action bound to that key")
		return nil
	}
	prog.done("Performed " + res.Action)

	printDispatched(res, ws.session.Document())
	return c.save(ws)
}

// save writes ws back unless --dry-run is set.
func (c *CLI) save(ws *workspace) error {
	if c.dryRun {
		printDetail("dry run: %s not written", ws.path)
		return nil
	}
	if err := ws.Save(); err != nil {
		return err
	}
	printFile(ws.path)
	return nil
}
