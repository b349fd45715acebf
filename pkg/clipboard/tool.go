package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"time"
)

// DefaultTimeout bounds each clipboard tool invocation.
const DefaultTimeout = 3 * time.Second

// Tool describes one clipboard command family.
type Tool struct {
	Name     string // binary used for writing, checked with exec.LookPath
	Platform string // "darwin", "linux", "windows", or "" for any

	Copy  []string // write text from stdin
	Paste []string // print text to stdout

	// Typed variants take a MIME type. Nil when the tool only handles text.
	CopyTyped  func(mime string) []string
	PasteTyped func(mime string) []string
	ListTypes  []string
}

var tools = []Tool{
	{
		Name: "wl-copy", Platform: "linux",
		Copy:       []string{"wl-copy"},
		Paste:      []string{"wl-paste", "--no-newline"},
		CopyTyped:  func(m string) []string { return []string{"wl-copy", "--type", m} },
		PasteTyped: func(m string) []string { return []string{"wl-paste", "--no-newline", "--type", m} },
		ListTypes:  []string{"wl-paste", "--list-types"},
	},
	{
		Name: "xclip", Platform: "linux",
		Copy:       []string{"xclip", "-selection", "clipboard"},
		Paste:      []string{"xclip", "-selection", "clipboard", "-o"},
		CopyTyped:  func(m string) []string { return []string{"xclip", "-selection", "clipboard", "-t", m} },
		PasteTyped: func(m string) []string { return []string{"xclip", "-selection", "clipboard", "-o", "-t", m} },
		ListTypes:  []string{"xclip", "-selection", "clipboard", "-o", "-t", "TARGETS"},
	},
	{
		Name: "pbcopy", Platform: "darwin",
		Copy:  []string{"pbcopy"},
		Paste: []string{"pbpaste"},
	},
	{
		Name: "clip.exe", Platform: "",
		Copy:  []string{"clip.exe"},
		Paste: []string{"powershell.exe", "-NoProfile", "-Command", "Get-Clipboard"},
	},
	{
		Name: "powershell", Platform: "windows",
		Copy:  []string{"powershell", "-NoProfile", "-Command", "$input | Set-Clipboard"},
		Paste: []string{"powershell", "-NoProfile", "-Command", "Get-Clipboard"},
	},
}

// Tools returns the known tools in priority order.
func Tools() []Tool { return slices.Clone(tools) }

// ToolsForPlatform filters tools for goos. On Wayland sessions wl-copy
// keeps its priority; otherwise it is moved behind xclip.
func ToolsForPlatform(goos string, wayland bool) []Tool {
	var out []Tool
	for _, t := range tools {
		if t.Platform == "" || t.Platform == goos {
			out = append(out, t)
		}
	}
	if !wayland && len(out) > 1 && out[0].Name == "wl-copy" {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// RunFunc executes a command with stdin and returns its stdout.
type RunFunc func(ctx context.Context, argv []string, stdin []byte) ([]byte, error)

// ToolBackend drives the system clipboard through command line tools.
type ToolBackend struct {
	tool    Tool
	run     RunFunc
	timeout time.Duration
}

// ToolOption configures a ToolBackend.
type ToolOption func(*ToolBackend)

// WithRunner replaces command execution.
func WithRunner(run RunFunc) ToolOption {
	return func(b *ToolBackend) { b.run = run }
}

// WithTimeout sets the per-command timeout.
func WithTimeout(d time.Duration) ToolOption {
	return func(b *ToolBackend) { b.timeout = d }
}

// NewToolBackend picks the first available tool for the current platform.
func NewToolBackend(opts ...ToolOption) (*ToolBackend, error) {
	candidates := ToolsForPlatform(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "")
	for _, t := range candidates {
		if _, err := exec.LookPath(t.Name); err == nil {
			return NewToolBackendFor(t, opts...), nil
		}
	}
	return nil, ErrNoClipboardTool
}

// NewToolBackendFor uses t without checking that it is installed.
func NewToolBackendFor(t Tool, opts ...ToolOption) *ToolBackend {
	b := &ToolBackend{tool: t, run: execRun, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tool returns the tool in use.
func (b *ToolBackend) Tool() Tool { return b.tool }

// Probe reports text support always and blob support for typed tools.
// Command line tools hold one representation at a time.
func (b *ToolBackend) Probe() Capabilities {
	return Capabilities{
		WriteText: true,
		WriteBlob: b.tool.CopyTyped != nil,
	}
}

// Write places the first item on the clipboard. The native envelope is
// written as text so other tools and editors can read it back.
func (b *ToolBackend) Write(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	it := items[0]
	argv := b.tool.Copy
	if strings.HasPrefix(it.MIME, "image/") {
		if b.tool.CopyTyped == nil {
			return fmt.Errorf("%s cannot write %s", b.tool.Name, it.MIME)
		}
		argv = b.tool.CopyTyped(it.MIME)
	}
	_, err := b.exec(ctx, argv, it.Data)
	return err
}

// Read lists the available types when the tool supports it and returns
// an image item if one is offered, plus the text content.
func (b *ToolBackend) Read(ctx context.Context) ([]Item, error) {
	var items []Item
	if b.tool.ListTypes != nil {
		if out, err := b.exec(ctx, b.tool.ListTypes, nil); err == nil {
			types := strings.Fields(string(out))
			for _, mime := range []string{MimePNG, MimeSVG} {
				if !slices.Contains(types, mime) {
					continue
				}
				data, err := b.exec(ctx, b.tool.PasteTyped(mime), nil)
				if err != nil {
					return nil, err
				}
				items = append(items, Item{MIME: mime, Data: data})
				break
			}
			if len(items) > 0 && !slices.Contains(types, "text/plain") && !slices.Contains(types, "UTF8_STRING") {
				return items, nil
			}
		}
	}
	text, err := b.exec(ctx, b.tool.Paste, nil)
	if err != nil {
		if len(items) > 0 {
			return items, nil
		}
		return nil, err
	}
	items = append(items, Item{MIME: MimeText, Data: bytes.TrimSuffix(text, []byte("\n"))})
	return items, nil
}

func (b *ToolBackend) exec(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	out, err := b.run(ctx, argv, stdin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", argv[0], err)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", argv[0], ctx.Err())
	}
	return out, nil
}

func execRun(ctx context.Context, argv []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

var _ Backend = (*ToolBackend)(nil)
