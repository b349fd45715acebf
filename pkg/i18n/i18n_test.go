package i18n

import (
	"testing"
	"testing/fstest"
)

func TestDefaultLocales(t *testing.T) {
	got := Default().Locales()
	if len(got) != 2 || got[0] != "de-DE" || got[1] != "en-US" {
		t.Errorf("Locales() = %v", got)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		locale string
		key    string
		want   string
	}{
		{"en-US", "labels.cut", "Cut"},
		{"de-DE", "labels.cut", "Ausschneiden"},
		{"de", "labels.copy", "Kopieren"},
		{"fr-FR", "labels.paste", "Paste"},
		{"", "labels.stylize", "Stylize"},
		// Missing in de-DE, falls back to the base locale.
		{"de-DE", "hints.clipboard_text_unsupported", "Copied, but plain text could not be written to the clipboard."},
		{"en-US", "no.such.key", "no.such.key"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			tr := Default().Translator(tt.locale)
			if got := tr.T(tt.key); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslatePlaceholders(t *testing.T) {
	tr := Default().Translator("en-US")
	got := tr.T("toast.copyToClipboardAsPng", Args{
		"exportSelection":   tr.T("toast.selection"),
		"exportColorScheme": tr.T("buttons.darkMode"),
	})
	want := "Copied selection to clipboard as PNG\n(Dark mode)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTranslateLiteralPercent(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.toml": {Data: []byte("locale = \"en-US\"\n[messages]\n\"toast.zoom\" = \"Zoomed to {zoom}% (100% is actual size)\"\n")},
		"locales/de-DE.toml": {Data: []byte("locale = \"de-DE\"\n[messages]\n\"toast.zoom\" = \"Auf {zoom}% gezoomt\"\n")},
	}
	b, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	if got, want := b.Translator("en-US").T("toast.zoom", Args{"zoom": "50"}), "Zoomed to 50% (100% is actual size)"; got != want {
		t.Errorf("en-US: got %q, want %q", got, want)
	}
	if got, want := b.Translator("de-DE").T("toast.zoom", Args{"zoom": "200"}), "Auf 200% gezoomt"; got != want {
		t.Errorf("de-DE: got %q, want %q", got, want)
	}
}

func TestLoadFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/de-DE.toml": {Data: []byte("locale = \"de-DE\"\n[messages]\n\"a\" = \"b\"\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Error("expected error without base locale")
	}
}

func TestLoadFSLocaleMismatch(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US.toml": {Data: []byte("locale = \"en-GB\"\n[messages]\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Error("expected error for mismatched locale")
	}
}
