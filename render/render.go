// Package render defines the data exchanged with the external rasterizer:
// styled subtitle text and layout parameters in, indexed bitmaps out.
//
// The package is a leaf; it carries no synchronization and no behavior
// beyond parameter normalization. The rasterizer itself is supplied by the
// host application as a Func and treated as an opaque, possibly slow,
// synchronous call.
package render

// Color is a 32-bit ARGB color value (0xAARRGGBB).
type Color uint32

// ARGB builds a Color from individual channel values.
func ARGB(a, r, g, b uint8) Color {
	return Color(a)<<24 | Color(r)<<16 | Color(g)<<8 | Color(b)
}

// Alpha returns the alpha channel of the color.
func (c Color) Alpha() uint8 { return uint8(c >> 24) }

// PaletteMode selects the palette depth of the produced bitmap.
type PaletteMode int

const (
	// Palette16 is the default 16-color mode used by most broadcast
	// subtitle streams.
	Palette16 PaletteMode = iota
	// Palette4 is the reduced 4-color mode.
	Palette4
	// Palette256 is the full 256-color mode.
	Palette256
)

// Align places the rendered text block inside the target frame.
type Align int

const (
	// AlignDefault means the caller supplied no positioning; the pool
	// substitutes DefaultPosition before rendering.
	AlignDefault Align = iota
	AlignBottomCenter
	AlignBottomLeft
	AlignBottomRight
	AlignTopCenter
	AlignTopLeft
	AlignTopRight
	AlignCenter
)

// FontStyle is a bitmask of style flags applied to the whole entry.
// Inline markup inside Params.Markup may still override it per span.
type FontStyle int

const (
	StyleBold FontStyle = 1 << iota
	StyleItalic
	StyleUnderline

	StyleRegular FontStyle = 0
)

// DefaultMargin is the fraction of the frame kept clear on each side when
// the caller supplies no positioning.
const DefaultMargin = 0.035

// Position describes where the text block sits and how much of the frame
// is kept clear around it. Margins are fractions of the frame dimensions.
type Position struct {
	Align        Align
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
}

// DefaultPosition returns the positioning applied when a caller supplies
// none: bottom-center with a 3.5% margin on all four sides.
func DefaultPosition() Position {
	return Position{
		Align:        AlignBottomCenter,
		MarginLeft:   DefaultMargin,
		MarginRight:  DefaultMargin,
		MarginTop:    DefaultMargin,
		MarginBottom: DefaultMargin,
	}
}

// Params bundles everything the rasterizer needs for one entry. Values are
// copied into the pool at submission time, so a caller may reuse or mutate
// its own copy as soon as the submitting call returns.
type Params struct {
	// Markup is the styled text to render. The markup dialect is a
	// contract between the host and its rasterizer; the pool never
	// inspects it.
	Markup string

	// Target frame dimensions in pixels.
	Width  int
	Height int

	FontFamily string
	FontSize   int
	FontStyle  FontStyle

	// Color roles.
	Foreground Color
	Outline    Color
	Shadow     Color
	Background Color

	Position Position
	Palette  PaletteMode
}

// Normalized returns a copy of p with the default position filled in when
// the caller supplied none.
func (p Params) Normalized() Params {
	if p.Position.Align == AlignDefault {
		p.Position = DefaultPosition()
	}
	return p
}

// Artifact is the rasterized result: a palette-indexed pixel buffer plus
// its palette and dimensions. The zero Artifact is the well-defined empty
// result a rasterizer returns on internal failure.
//
// Ownership of the buffers transfers to whichever caller receives the
// Artifact; the pool keeps no reference after handing it out.
type Artifact struct {
	// Pixels holds one palette index per pixel, row-major,
	// Width*Height entries.
	Pixels []uint8

	Palette []Color

	Width  int
	Height int

	// Colors is the number of palette entries actually used.
	Colors int
}

// Empty reports whether the artifact carries no usable bitmap.
func (a Artifact) Empty() bool {
	return a.Width <= 0 || a.Height <= 0 || len(a.Pixels) == 0
}

// Func is the synchronous rasterization contract supplied by the host
// application. Implementations must be safe to call concurrently with
// independent arguments, must not retain references to the Params strings
// past return, and must return the zero Artifact on internal failure
// rather than panicking or signaling an error.
type Func func(Params) Artifact
