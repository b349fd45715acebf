// Package i18n translates the message keys that actions place on document
// state (labels, errors, hints and toasts).
//
// Catalogs are embedded TOML files, one per locale, and are registered
// with a golang.org/x/text catalog. Lookups fall back to [BaseLocale] when
// a key is missing from the requested locale, and to the key itself when
// it is missing everywhere.
//
// Messages use named placeholders in braces; a literal % is printed as is:
//
//	tr.T("toast.copyToClipboardAsPng", i18n.Args{"exportSelection": "canvas"})
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLocale is the source locale every other catalog falls back to.
const BaseLocale = "en-US"

//go:embed locales/*.toml
var embeddedFS embed.FS

// Args holds named placeholder values.
type Args map[string]string

type catalogFile struct {
	Locale   string            `toml:"locale"`
	Messages map[string]string `toml:"messages"`
}

// Bundle holds every loaded locale.
type Bundle struct {
	builder *catalog.Builder
	locales map[string]map[string]string
	matcher language.Matcher
	tags    []language.Tag
}

// LoadFS loads locales/*.toml from fsys.
func LoadFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.toml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		locales: map[string]map[string]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		want := strings.TrimSuffix(path.Base(p), ".toml")
		if file.Locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name", p, file.Locale)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		for key, msg := range file.Messages {
			// Catalog strings are printf formats; placeholders use braces.
			if err := b.builder.SetString(tag, key, strings.ReplaceAll(msg, "%", "%%")); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", p, key, err)
			}
		}
		b.locales[file.Locale] = file.Messages
		b.tags = append(b.tags, tag)
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}

	// The first tag is the matcher's default.
	sort.SliceStable(b.tags, func(i, j int) bool {
		return b.tags[i].String() == BaseLocale && b.tags[j].String() != BaseLocale
	})
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the embedded bundle. It panics if the embedded catalogs
// are malformed, which is a build error.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := LoadFS(embeddedFS)
		if err != nil {
			panic(err)
		}
		defaultBundle = b
	})
	return defaultBundle
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for l := range b.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Translator returns a translator for the best match of locale.
func (b *Bundle) Translator(locale string) *Translator {
	_, index := language.MatchStrings(b.matcher, locale)
	tag := b.tags[index]
	base := language.MustParse(BaseLocale)
	return &Translator{
		bundle:      b,
		locale:      tag.String(),
		printer:     message.NewPrinter(tag, message.Catalog(b.builder)),
		basePrinter: message.NewPrinter(base, message.Catalog(b.builder)),
	}
}

// Translator resolves keys for one locale.
type Translator struct {
	bundle      *Bundle
	locale      string
	printer     *message.Printer
	basePrinter *message.Printer
}

// Locale returns the resolved locale.
func (t *Translator) Locale() string { return t.locale }

// Has reports whether key exists in the resolved locale or the base locale.
func (t *Translator) Has(key string) bool {
	return t.has(t.locale, key) || t.has(BaseLocale, key)
}

func (t *Translator) has(locale, key string) bool {
	_, ok := t.bundle.locales[locale][key]
	return ok
}

// T translates key and substitutes named placeholders. Unknown keys are
// returned unchanged.
func (t *Translator) T(key string, args ...Args) string {
	var msg string
	switch {
	case t.has(t.locale, key):
		msg = t.printer.Sprintf(key)
	case t.has(BaseLocale, key):
		msg = t.basePrinter.Sprintf(key)
	default:
		return key
	}
	for _, a := range args {
		for name, value := range a {
			msg = strings.ReplaceAll(msg, "{"+name+"}", value)
		}
	}
	return msg
}
