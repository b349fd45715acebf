package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/i18n"
)

func newTestPalette(t *testing.T) PaletteModel {
	t.Helper()
	prev := action.Darwin
	action.Darwin = false
	t.Cleanup(func() { action.Darwin = prev })
	return NewPaletteModel(action.DefaultRegistry().All(), i18n.Default().Translator("en-US"))
}

func typeInto(m PaletteModel, s string) PaletteModel {
	for _, r := range s {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		next, _ := m.Update(msg)
		m = next.(PaletteModel)
	}
	return m
}

func TestPaletteFilter(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", action.DefaultRegistry().Names()},
		{"remove", []string{"deleteSelected"}},
		{"clipboard png", []string{"copyAsPng"}},
		{"STYLE", []string{"stylize"}},
		{"nothing matches", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m := typeInto(newTestPalette(t), tt.query)
			var got []string
			for _, e := range m.Visible() {
				got = append(got, e.Descriptor.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaletteSelect(t *testing.T) {
	m := typeInto(newTestPalette(t), "copy")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(PaletteModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PaletteModel)

	if cmd == nil {
		t.Error("enter should quit")
	}
	if m.Selected == nil {
		t.Fatal("nothing selected")
	}
	if want := m.Visible()[1].Descriptor.Name; m.Selected.Name != want {
		t.Errorf("Selected = %s, want %s", m.Selected.Name, want)
	}
}

func TestPaletteBackspaceAndQuit(t *testing.T) {
	m := typeInto(newTestPalette(t), "zz")
	if len(m.Visible()) != 0 {
		t.Fatal("expected no matches")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(PaletteModel)
	if m.Query != "" || len(m.Visible()) != len(m.Entries) {
		t.Errorf("Query = %q after backspace", m.Query)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
	if next.(PaletteModel).Selected != nil {
		t.Error("esc should not select")
	}
}

func TestPaletteView(t *testing.T) {
	m := newTestPalette(t)
	view := m.View()
	for _, want := range []string{"Command Palette", "Cut", "ctrl+x", "[8/8]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	empty := typeInto(m, "zz").View()
	if !strings.Contains(empty, "no matching actions") {
		t.Error("empty view missing placeholder")
	}
}
