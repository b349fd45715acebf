package action

import (
	"context"

	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

// Stylize restyles the selection with the style-transfer backend and
// inserts the result as a new image element.
var Stylize = Descriptor{
	Name:       "stylize",
	Label:      "labels.stylize",
	Icon:       "sparkles",
	TrackEvent: elementEvent,
	Keywords:   []string{"ai", "style", "transfer", "image"},
	KeyTest: func(ev KeyEvent) bool {
		return ev.Alt && ev.Key == KeyR
	},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		return in.App.Stylizer().Stylize(ctx, stylize.Request{
			Elements:        in.Elements,
			AppState:        in.AppState,
			Files:           in.App.Files(),
			Name:            in.App.Name(),
			Prompt:          in.App.Prompt(),
			SurfaceAttached: in.App.SurfaceAttached(),
		}), nil
	},
}

// Builtins returns the built-in commands in registration order.
func Builtins() []Descriptor {
	return []Descriptor{Copy, Paste, Cut, DeleteSelected, CopyAsSVG, CopyAsPNG, CopyText, Stylize}
}

// DefaultRegistry builds a registry of the built-in commands.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err)
	}
	return reg
}
