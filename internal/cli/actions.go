package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/action"
)

// shortcutCandidates are the chords probed to display an action's
// shortcut, in display order.
var shortcutCandidates = []string{
	"mod+c", "mod+v", "mod+x", "backspace", "delete", "alt+shift+c", "alt+r",
}

// shortcutFor returns the first candidate chord that triggers d, or "".
func shortcutFor(d action.Descriptor) string {
	if d.KeyTest == nil {
		return ""
	}
	for _, chord := range shortcutCandidates {
		ev, err := action.ParseKeyChord(chord)
		if err == nil && d.MatchesKey(ev) {
			return ev.String()
		}
	}
	return ""
}

// actionsCommand creates the command that lists registered actions.
func (c *CLI) actionsCommand() *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "actions [scene]",
		Short: "List registered actions",
		Long: `List every registered action with its label, shortcut and whether it is
available for the given scene and selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ws, err := c.openWorkspace(cmd.Context(), path, workspaceOptions{selection: parseSelection(selection)})
			if err != nil {
				return err
			}
			defer ws.Close()

			fmt.Println(renderActionTable(ws))
			return nil
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "comma-separated element ids to select")
	return cmd
}

func renderActionTable(ws *workspace) string {
	sess := ws.session
	tr := sess.Translator()
	available := map[string]bool{}
	for _, d := range sess.Available() {
		available[d.Name] = true
	}

	all := sess.Dispatcher().Registry().All()
	rows := make([][]string, 0, len(all))
	for _, d := range all {
		mark := ""
		if available[d.Name] {
			mark = iconSuccess
		}
		rows = append(rows, []string{d.Name, tr.T(d.Label), shortcutFor(d), mark, strings.Join(d.Keywords, ", ")})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Action", "Label", "Shortcut", "Ready", "Keywords").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(all) {
				return lipgloss.NewStyle()
			}
			if !available[all[row].Name] {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
