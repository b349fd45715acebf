package host

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"
	"unicode/utf8"

	_ "golang.org/x/image/webp"

	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/clipboard"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/scene"
)

// Paste placement and text metrics.
const (
	PasteOffset     = 10
	pasteGap        = 20
	defaultFontSize = 20
	charWidth       = 0.6
	lineHeight      = 1.25
	svgPlaceholder  = 200
)

// Paste turns a clipboard payload into an effect that adds the pasted
// content and selects it.
func (s *Session) Paste(ctx context.Context, p clipboard.Payload, in action.Input) (*scene.Effect, error) {
	v := &paster{in: in, now: s.now().UnixMilli()}
	if err := p.Accept(v); err != nil {
		s.logger.Warn("paste failed", "kind", clipboard.Kind(p), "err", err)
		return nil, err
	}
	if v.eff == nil {
		return scene.None(), nil
	}
	s.logger.Debug("pasted", "kind", clipboard.Kind(p), "elements", len(v.added))
	return v.eff, nil
}

// paster builds the paste effect for each payload kind.
type paster struct {
	in    action.Input
	now   int64
	added []scene.Element
	eff   *scene.Effect
}

func (p *paster) VisitNative(n clipboard.NativePayload) error {
	src := scene.NonDeleted(n.Envelope.Elements)
	if len(src) == 0 {
		return nil
	}

	ids := make(map[string]string, len(src))
	groups := map[string]string{}
	for _, e := range src {
		ids[e.ID] = scene.NewID()
		for _, g := range e.GroupIDs {
			if _, ok := groups[g]; !ok {
				groups[g] = scene.NewID()
			}
		}
	}

	index := scene.NextIndex(p.in.Elements)
	var selected []string
	for _, e := range src {
		c := e.Clone()
		c.ID = ids[e.ID]
		c.X += PasteOffset
		c.Y += PasteOffset
		c.Index = index
		index = scene.IndexAfter(index)
		c.Version = 1
		c.Updated = p.now
		c.ContainerID = ids[e.ContainerID]
		c.FrameID = ids[e.FrameID]
		for i, g := range c.GroupIDs {
			c.GroupIDs[i] = groups[g]
		}
		var bound []scene.BoundElement
		for _, b := range c.BoundElements {
			if id, ok := ids[b.ID]; ok {
				bound = append(bound, scene.BoundElement{ID: id, Type: b.Type})
			}
		}
		c.BoundElements = bound
		if c.ContainerID == "" {
			selected = append(selected, c.ID)
		}
		p.added = append(p.added, c)
	}

	var files []scene.BinaryFile
	for _, f := range n.Envelope.Files.Subset(src) {
		files = append(files, f)
	}
	p.finish(files, selected...)
	return nil
}

func (p *paster) VisitText(t clipboard.TextPayload) error {
	text := strings.TrimRight(strings.ReplaceAll(t.Text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}

	el := p.base(scene.TypeText)
	el.Text = text
	el.OriginalText = text
	el.FontSize = defaultFontSize
	el.FontFamily = 1
	el.Width = float64(longest) * defaultFontSize * charWidth
	el.Height = float64(len(lines)) * defaultFontSize * lineHeight
	p.added = append(p.added, el)
	p.finish(nil, el.ID)
	return nil
}

func (p *paster) VisitImage(img clipboard.ImagePayload) error {
	if len(img.Data) == 0 {
		return dkerrors.New(dkerrors.ErrCodeClipboardParse, "clipboard image is empty")
	}
	width, height := svgPlaceholder, svgPlaceholder
	if img.MIME != scene.MimeSVG {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
		if err != nil {
			return dkerrors.Wrap(dkerrors.ErrCodeClipboardParse, err, "decode clipboard image")
		}
		width, height = cfg.Width, cfg.Height
	}

	file := scene.BinaryFile{
		MimeType: img.MIME,
		ID:       scene.FileIDFor(img.Data),
		DataURL:  scene.EncodeDataURL(img.MIME, img.Data),
		Created:  p.now,
	}
	el := p.base(scene.TypeImage)
	el.Width = float64(width)
	el.Height = float64(height)
	el.FileID = file.ID
	el.Status = scene.StatusSaved
	el.Scale = &[2]float64{1, 1}
	p.added = append(p.added, el)
	p.finish([]scene.BinaryFile{file}, el.ID)
	return nil
}

// base returns a new element placed below the existing content.
func (p *paster) base(t scene.ElementType) scene.Element {
	el := scene.NewBase(t, time.UnixMilli(p.now))
	visible := scene.NonDeleted(p.in.Elements)
	if len(visible) > 0 {
		b := scene.CommonBounds(visible)
		el.X = b.MinX
		el.Y = b.MaxY + pasteGap
	}
	el.Index = scene.NextIndex(p.in.Elements)
	return el
}

func (p *paster) finish(files []scene.BinaryFile, selected ...string) {
	elements := append(scene.CloneAll(p.in.Elements), p.added...)
	state := p.in.AppState.WithSelection(selected...)
	p.eff = &scene.Effect{
		Elements:    elements,
		AppState:    &state,
		Files:       files,
		StoreAction: scene.StoreActionCapture,
	}
}
