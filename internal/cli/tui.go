package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/i18n"
)

// =============================================================================
// Styles
// =============================================================================

var (
	listSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	listNormalStyle   = lipgloss.NewStyle()
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listQueryStyle    = lipgloss.NewStyle().Foreground(colorWhite)
)

// =============================================================================
// PaletteModel - Interactive action selection
// =============================================================================

// paletteEntry is one row of the palette.
type paletteEntry struct {
	Descriptor action.Descriptor
	Label      string
	Shortcut   string
}

// matches reports whether every word of query occurs in the name, the
// label or a keyword.
func (e paletteEntry) matches(query string) bool {
	haystack := append([]string{strings.ToLower(e.Descriptor.Name), strings.ToLower(e.Label)}, e.Descriptor.Keywords...)
	for _, word := range strings.Fields(strings.ToLower(query)) {
		found := false
		for _, h := range haystack {
			if strings.Contains(h, word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// PaletteModel is the bubbletea model for the command palette.
type PaletteModel struct {
	Entries  []paletteEntry
	Query    string
	Cursor   int
	Selected *action.Descriptor
}

// NewPaletteModel creates a palette over the available actions.
func NewPaletteModel(available []action.Descriptor, tr *i18n.Translator) PaletteModel {
	entries := make([]paletteEntry, len(available))
	for i, d := range available {
		entries[i] = paletteEntry{Descriptor: d, Label: tr.T(d.Label), Shortcut: shortcutFor(d)}
	}
	return PaletteModel{Entries: entries}
}

// Visible returns the entries matching the current query.
func (m PaletteModel) Visible() []paletteEntry {
	if m.Query == "" {
		return m.Entries
	}
	var out []paletteEntry
	for _, e := range m.Entries {
		if e.matches(m.Query) {
			out = append(out, e)
		}
	}
	return out
}

func (m PaletteModel) Init() tea.Cmd {
	return nil
}

func (m PaletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	visible := m.Visible()
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyUp:
		if m.Cursor > 0 {
			m.Cursor--
		}
	case tea.KeyDown:
		if m.Cursor < len(visible)-1 {
			m.Cursor++
		}
	case tea.KeyEnter:
		if len(visible) > 0 {
			d := visible[m.Cursor].Descriptor
			m.Selected = &d
			return m, tea.Quit
		}
	case tea.KeyBackspace:
		if m.Query != "" {
			r := []rune(m.Query)
			m.Query = string(r[:len(r)-1])
			m.Cursor = 0
		}
	case tea.KeySpace:
		m.Query += " "
		m.Cursor = 0
	case tea.KeyRunes:
		m.Query += string(keyMsg.Runes)
		m.Cursor = 0
	}
	return m, nil
}

func (m PaletteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Command Palette"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ run  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(StyleHighlight.Render("> ") + listQueryStyle.Render(m.Query))
	b.WriteString("\n\n")

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching actions"))
		b.WriteString("\n")
		return b.String()
	}

	for i, e := range visible {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-22s %s", cursor, e.Label, listDimStyle.Render(e.Shortcut))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", len(visible), len(m.Entries))))
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// paletteCommand creates the interactive command palette.
func (c *CLI) paletteCommand() *cobra.Command {
	var selection string

	cmd := &cobra.Command{
		Use:   "palette <scene>",
		Short: "Pick an action interactively",
		Long: `Open a command palette listing the actions available for the scene and
selection. Typing filters by name, label and keywords.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], workspaceOptions{selection: parseSelection(selection)})
			if err != nil {
				return err
			}
			defer ws.Close()

			model := NewPaletteModel(ws.session.Available(), ws.session.Translator())
			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("palette: %w", err)
			}
			picked := final.(PaletteModel).Selected
			if picked == nil {
				return nil
			}

			res, err := ws.session.Perform(ctx, picked.Name)
			if err != nil {
				return err
			}
			printDispatched(res, ws.session.Document())
			return c.save(ws)
		},
	}

	cmd.Flags().StringVar(&selection, "select", "", "comma-separated element ids to select")
	return cmd
}
