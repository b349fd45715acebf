// Package render draws scene elements to SVG and PNG.
//
// It is the default export collaborator: [pkg/export] decides which
// elements, frame and overrides to render, and this package turns that
// input into bytes.
//
//	svg, err := render.SVG(elements, files, render.Options{Padding: 10})
//	png, err := render.PNG(elements, files, render.Options{Scale: 2})
//
// # Canvas
//
// The canvas covers the common bounds of the elements plus Padding on
// every side. When Options.Frame is set, the canvas is exactly the frame's
// bounds and content outside it is clipped.
//
// # Shapes
//
// Rectangles, diamonds, ellipses, linear elements, freedraw strokes, text,
// images and frames are drawn with their stroke and fill colours. Rough
// (hand-drawn) stroke jitter is not reproduced.
//
// # Dark mode
//
// SVG output carries the editor's invert filter. PNG output inverts every
// pixel that does not belong to an embedded image.
//
// [pkg/export]: github.com/matzehuels/drawkit/pkg/export
package render
