package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/action"
)

// stylizeCommand creates the AI style-transfer command.
func (c *CLI) stylizeCommand() *cobra.Command {
	var (
		selection string
		prompt    string
		canny     bool
	)

	cmd := &cobra.Command{
		Use:   "stylize <scene>",
		Short: "Run AI style transfer on the selection or the whole canvas",
		Long: `Export the selection (or the whole canvas when nothing is selected), send it
to the style-transfer backend and place the returned image next to the
original, selected.

Without --prompt the configured default prompt is used.`,
		Example: `  drawkit stylize drawing.excalidraw --select sketch-1 --prompt "oil painting"
  drawkit stylize drawing.excalidraw --canny=false --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := workspaceOptions{selection: parseSelection(selection), prompt: prompt}
			if cmd.Flags().Changed("canny") {
				opts.canny = &canny
			}

			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], opts)
			if err != nil {
				return err
			}
			defer ws.Close()

			spinner := newSpinnerWithContext(ctx, "Starting style transfer")
			detach := attachSpinner(spinner)
			defer detach()

			prog := newProgress(ws.logger)
			spinner.Start()
			res, err := ws.session.Perform(ctx, action.Stylize.Name)
			if err != nil {
				spinner.Stop()
				return err
			}

			eff := res.Effect
			if eff != nil && eff.AppState != nil && eff.AppState.ErrorMessage != "" {
				spinner.StopWithError("Style transfer failed")
				return errors.New(eff.AppState.ErrorMessage)
			}
			if eff == nil || len(eff.Files) == 0 {
				spinner.Stop()
				printWarning("The backend returned no image")
				return nil
			}
			spinner.Stop()
			prog.done("Style transfer complete")

			printDispatched(res, ws.session.Document())
			used := ws.session.Prompt()
			if used == "" {
				used = ws.cfg.Stylize.DefaultPrompt
			}
			printKeyValue("prompt", used)
			return c.save(ws)
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "comma-separated element ids to stylize")
	cmd.Flags().StringVar(&prompt, "prompt", "", "style prompt (default from config)")
	cmd.Flags().BoolVar(&canny, "canny", false, "use edge-detection conditioning")
	return cmd
}
