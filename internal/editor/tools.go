package editor

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
	"golang.org/x/mobile/event/key"

	"github.com/example/annotate-edit/internal/anno"
	"github.com/example/annotate-edit/internal/render"
	"github.com/example/annotate-edit/internal/theme"
)

// Tool selects what a press-drag-release on the canvas produces.
type Tool int

const (
	ToolSelect Tool = iota
	ToolArrow
	ToolRect
	ToolEllipse
	ToolStroke
	ToolHighlight
	ToolText
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolArrow:
		return "arrow"
	case ToolRect:
		return "rect"
	case ToolEllipse:
		return "ellipse"
	case ToolStroke:
		return "freehand"
	case ToolHighlight:
		return "highlight"
	case ToolText:
		return "text"
	}
	return "unknown"
}

// Label is the toolbar caption, mnemonic first.
func (t Tool) Label() string {
	switch t {
	case ToolSelect:
		return "V:Select"
	case ToolArrow:
		return "A:Arrow"
	case ToolRect:
		return "R:Rect"
	case ToolEllipse:
		return "E:Ellipse"
	case ToolStroke:
		return "F:Free"
	case ToolHighlight:
		return "H:Mark"
	case ToolText:
		return "T:Text"
	}
	return "?"
}

// draws reports whether a drag with the tool produces an annotation on
// release. Select manipulates existing annotations and Text commits on Enter.
func (t Tool) draws() bool {
	switch t {
	case ToolArrow, ToolRect, ToolEllipse, ToolStroke, ToolHighlight:
		return true
	}
	return false
}

// toolOrder is the toolbar layout, top to bottom.
var toolOrder = []Tool{ToolSelect, ToolArrow, ToolRect, ToolEllipse, ToolStroke, ToolHighlight, ToolText}

var toolMnemonics = map[rune]Tool{
	'v': ToolSelect,
	'a': ToolArrow,
	'r': ToolRect,
	'e': ToolEllipse,
	'f': ToolStroke,
	'h': ToolHighlight,
	't': ToolText,
}

// ToolByName resolves a tool name from the CLI or the config file.
func ToolByName(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "select", "v":
		return ToolSelect, nil
	case "arrow", "a":
		return ToolArrow, nil
	case "rect", "rectangle", "r":
		return ToolRect, nil
	case "ellipse", "circle", "e":
		return ToolEllipse, nil
	case "freehand", "free", "stroke", "f":
		return ToolStroke, nil
	case "highlight", "mark", "h":
		return ToolHighlight, nil
	case "text", "t":
		return ToolText, nil
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// highlightAlpha is the straight alpha applied to the fill color of the
// highlight tool so underlying content stays readable.
const highlightAlpha = 96

const (
	defaultColorIndex = 0
	defaultWidthIndex = 2
)

// PaletteColor pairs a swatch color with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []color.RGBA{
		{224, 49, 49, 255},
		{247, 103, 7, 255},
		{255, 212, 59, 255},
		{47, 158, 68, 255},
		{18, 184, 134, 255},
		{28, 126, 214, 255},
		{112, 72, 232, 255},
		{214, 51, 108, 255},
		{121, 80, 50, 255},
		{33, 37, 41, 255},
		{134, 142, 150, 255},
		{255, 255, 255, 255},
	}
	paletteNames = []string{
		"red",
		"orange",
		"yellow",
		"green",
		"teal",
		"blue",
		"purple",
		"magenta",
		"brown",
		"black",
		"gray",
		"white",
	}
)

var (
	widthsMu sync.RWMutex
	widths   = []int{1, 2, 3, 4, 6, 8}
)

// DefaultColorIndex returns the palette index new sessions start with.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultWidthIndex returns the stroke width index new sessions start with.
func DefaultWidthIndex() int { return defaultWidthIndex }

// Palette returns a copy of the available drawing colors.
func Palette() []color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]color.RGBA, len(palette))
	copy(out, palette)
	return out
}

// PaletteColors returns palette entries annotated with their display names.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	for i := range palette {
		out[i] = PaletteColor{Name: paletteNames[i], Color: palette[i]}
	}
	return out
}

// EnsurePaletteColor makes sure col is present in the palette and returns its
// index. Colors arriving from flags or the config file land here so the
// toolbar always shows the color in use.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing == col {
			if name != "" && paletteNames[idx] == "" {
				paletteNames[idx] = name
			}
			return idx
		}
	}
	if name == "" {
		name = theme.FormatColor(col)
	}
	palette = append(palette, col)
	paletteNames = append(paletteNames, name)
	return len(palette) - 1
}

// ResolveColor parses a color given as a palette name, an SVG 1.1 color
// keyword, or a #RRGGBB[AA] literal. The returned name is what the status bar
// shows for it.
func ResolveColor(spec string) (color.RGBA, string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return color.RGBA{}, "", fmt.Errorf("empty color")
	}
	if strings.HasPrefix(spec, "#") {
		col, err := theme.ParseColor(spec)
		if err != nil {
			return color.RGBA{}, "", err
		}
		return col, theme.FormatColor(col), nil
	}
	name := strings.ToLower(spec)
	paletteMu.RLock()
	for i, n := range paletteNames {
		if n == name {
			col := palette[i]
			paletteMu.RUnlock()
			return col, n, nil
		}
	}
	paletteMu.RUnlock()
	if col, ok := colornames.Map[name]; ok {
		return col, name, nil
	}
	return color.RGBA{}, "", fmt.Errorf("unknown color %q", spec)
}

// WidthOptions returns a copy of the available stroke widths.
func WidthOptions() []int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	out := make([]int, len(widths))
	copy(out, widths)
	return out
}

// EnsureWidth makes sure width is included in the options and returns its index.
func EnsureWidth(width int) int {
	if width < 1 {
		width = 1
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	widths = append(widths, width)
	sort.Ints(widths)
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	return 0
}

func paletteLen() int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return len(palette)
}

func paletteColorAt(idx int) color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(palette) == 0 {
		return color.RGBA{}
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(palette) {
		idx = len(palette) - 1
	}
	return palette[idx]
}

func paletteNameAt(idx int) string {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(paletteNames) == 0 {
		return ""
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(paletteNames) {
		idx = len(paletteNames) - 1
	}
	return paletteNames[idx]
}

func clampColorIndex(idx int) int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(palette) == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= len(palette) {
		return len(palette) - 1
	}
	return idx
}

func widthsLen() int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	return len(widths)
}

func widthAt(idx int) int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if len(widths) == 0 {
		return 1
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(widths) {
		idx = len(widths) - 1
	}
	return widths[idx]
}

func clampWidthIndex(idx int) int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if len(widths) == 0 {
		return 0
	}
	if idx < 0 {
		return 0
	}
	if idx >= len(widths) {
		return len(widths) - 1
	}
	return idx
}

// fontIndexFor snaps size to the nearest offered text size and returns its
// index in render.TextSizes.
func fontIndexFor(size int) int {
	snapped := render.ClosestTextSize(size)
	for i, sz := range render.TextSizes() {
		if sz == snapped {
			return i
		}
	}
	return 0
}

func clampFontIndex(idx int) int {
	n := len(render.TextSizes())
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func fontSizeAt(idx int) int {
	sizes := render.TextSizes()
	if len(sizes) == 0 {
		return render.DefaultTextSize()
	}
	return sizes[clampFontIndex(idx)]
}

// kindForTool maps drawing tools to their annotation kind.
func kindForTool(t Tool) (anno.Kind, bool) {
	switch t {
	case ToolArrow:
		return anno.KindArrow, true
	case ToolRect, ToolHighlight:
		return anno.KindRect, true
	case ToolEllipse:
		return anno.KindEllipse, true
	case ToolStroke:
		return anno.KindStroke, true
	case ToolText:
		return anno.KindText, true
	}
	return 0, false
}

// KeyShortcut describes a keyboard combination that triggers an action.
// Either Rune or Code is set, never both.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }
