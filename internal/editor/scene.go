package editor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/annotate-edit/internal/anno"
	"github.com/example/annotate-edit/internal/render"
	"github.com/example/annotate-edit/internal/theme"
)

const (
	titleHeight    = 24
	toolRowHeight  = 24
	swatchSize     = 16
	swatchStep     = 18
	swatchCols     = 4
	widthRowHeight = 16
	statusHeight   = 24

	messageTextSize = 20
)

// toolbarWidth is widened at startup so every label fits.
var toolbarWidth = 76

// measureToolbarWidth grows the toolbar until the program title and all tool
// button labels fit without clipping.
func measureToolbarWidth(title string) {
	d := &font.Drawer{Face: basicfont.Face7x13}
	max := d.MeasureString(title).Ceil() + 8
	for _, t := range toolOrder {
		if w := d.MeasureString(t.Label()).Ceil() + 8; w > max {
			max = w
		}
	}
	if min := 4 + swatchCols*swatchStep; max < min {
		max = min
	}
	if max > toolbarWidth {
		toolbarWidth = max
	}
}

// SceneState is an immutable snapshot of everything a frame shows. The event
// loop builds one per paint event and hands it to the paint goroutine; nothing
// in it is written after construction.
type SceneState struct {
	Size image.Point

	// Canvas content. Base is shared with the session and only ever read.
	Base        *image.RGBA
	Annotations []anno.Annotation
	Preview     *anno.Annotation
	Selected    int

	Tool     Tool
	ColorIdx int
	WidthIdx int
	FontIdx  int

	// View transform, in image coordinates.
	Zoom   float64
	Offset image.Point

	TextActive bool
	TextPos    image.Point
	TextBuf    string

	Message      string
	MessageUntil time.Time
	Dirty        bool

	Theme *theme.Theme

	HoverTool   int
	HoverSwatch int
	HoverWidth  int
	HoverSize   int
	HoverChip   int
}

// ButtonState describes the visual state of a toolbar button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateArmed
)

// Layout. All rectangles are in window coordinates; the toolbar occupies the
// left column, the status bar the bottom row, the canvas the rest.

func toolButtonRect(i int) image.Rectangle {
	y := titleHeight + i*toolRowHeight
	return image.Rect(0, y, toolbarWidth, y+toolRowHeight)
}

func swatchTop() int { return titleHeight + len(toolOrder)*toolRowHeight + 4 }

func swatchRect(i int) image.Rectangle {
	x := 4 + (i%swatchCols)*swatchStep
	y := swatchTop() + (i/swatchCols)*swatchStep
	return image.Rect(x, y, x+swatchSize, y+swatchSize)
}

func swatchRows() int { return (paletteLen() + swatchCols - 1) / swatchCols }

func widthTop() int { return swatchTop() + swatchRows()*swatchStep + 4 }

func widthRect(i int) image.Rectangle {
	y := widthTop() + i*widthRowHeight
	return image.Rect(0, y, toolbarWidth, y+widthRowHeight)
}

func sizeTop() int { return widthTop() + widthsLen()*widthRowHeight + 4 }

// sizeRowHeight leaves room for a sample rendered at the size itself.
func sizeRowHeight(size int) int {
	h := size + 10
	if h < widthRowHeight {
		return widthRowHeight
	}
	return h
}

func sizeRect(i int) image.Rectangle {
	sizes := render.TextSizes()
	y := sizeTop()
	for j := 0; j < i && j < len(sizes); j++ {
		y += sizeRowHeight(sizes[j])
	}
	h := sizeRowHeight(render.DefaultTextSize())
	if i >= 0 && i < len(sizes) {
		h = sizeRowHeight(sizes[i])
	}
	return image.Rect(0, y, toolbarWidth, y+h)
}

func statusRect(win image.Point) image.Rectangle {
	return image.Rect(0, win.Y-statusHeight, win.X, win.Y)
}

func viewportRect(win image.Point) image.Rectangle {
	return image.Rect(toolbarWidth, 0, win.X, win.Y-statusHeight)
}

// imageToScreen maps an image pixel to its window position under the view
// transform. screenToImage is its inverse.
func imageToScreen(p image.Point, zoom float64, off image.Point) image.Point {
	return image.Pt(
		toolbarWidth+int(float64(p.X+off.X)*zoom),
		int(float64(p.Y+off.Y)*zoom),
	)
}

func screenToImage(p image.Point, zoom float64, off image.Point) image.Point {
	return image.Pt(
		int(float64(p.X-toolbarWidth)/zoom)-off.X,
		int(float64(p.Y)/zoom)-off.Y,
	)
}

func imageRectToScreen(r image.Rectangle, zoom float64, off image.Point) image.Rectangle {
	min := imageToScreen(r.Min, zoom, off)
	max := imageToScreen(r.Max, zoom, off)
	return image.Rect(min.X, min.Y, max.X, max.Y)
}

// fitZoom is the zoom at which the whole image fills the canvas viewport.
func fitZoom(imgSize, win image.Point) float64 {
	availW := win.X - toolbarWidth
	availH := win.Y - statusHeight
	if imgSize.X <= 0 || imgSize.Y <= 0 || availW <= 0 || availH <= 0 {
		return 1
	}
	zx := float64(availW) / float64(imgSize.X)
	zy := float64(availH) / float64(imgSize.Y)
	if zx < zy {
		return zx
	}
	return zy
}

func canvasScreenRect(st SceneState) image.Rectangle {
	size := st.Base.Bounds().Size()
	w := int(float64(size.X) * st.Zoom)
	h := int(float64(size.Y) * st.Zoom)
	r := image.Rect(toolbarWidth, 0, toolbarWidth+w, h)
	return r.Add(image.Pt(int(float64(st.Offset.X)*st.Zoom), int(float64(st.Offset.Y)*st.Zoom)))
}

// statusChip is a clickable hint in the bottom bar; action names an entry in
// the session's action table.
type statusChip struct {
	label  string
	action string
}

func statusChips(textActive bool) []statusChip {
	if textActive {
		return []statusChip{
			{"Enter:place", "textdone"},
			{"Esc:cancel", "textcancel"},
		}
	}
	return []statusChip{
		{"^S:save", "save"},
		{"^C:copy", "copy"},
		{"^Z:undo", "undo"},
		{"^Y:redo", "redo"},
		{"Q:quit", "quit"},
	}
}

func chipRects(win image.Point, chips []statusChip) []image.Rectangle {
	meas := &font.Drawer{Face: basicfont.Face7x13}
	rects := make([]image.Rectangle, len(chips))
	x := 6
	y := win.Y - statusHeight + 16
	for i, c := range chips {
		w := meas.MeasureString(c.label).Ceil()
		rects[i] = image.Rect(x-2, y-14, x+w+2, y+4)
		x = rects[i].Max.X + 8
	}
	return rects
}

// DrawScene renders a complete frame for st. It is plain CPU rasterization
// over the image packages, so tests render frames without a window.
func DrawScene(st SceneState) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, st.Size.X, st.Size.Y))
	drawScene(context.Background(), frame, st)
	return frame
}

// drawScene renders st into dst, checking ctx between stages so a stale frame
// stops early when a newer one is queued.
func drawScene(ctx context.Context, dst *image.RGBA, st SceneState) {
	if st.Theme == nil {
		st.Theme = theme.Default()
	}
	if st.Zoom <= 0 {
		st.Zoom = 1
	}
	th := st.Theme

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	view := viewportRect(st.Size)
	canvas := canvasScreenRect(st)
	render.Checkerboard(dst, canvas.Intersect(view), 8, th.CheckerLight, th.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	composed := composeDocument(st)
	if ctx.Err() != nil {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, canvas, composed, composed.Bounds(), draw.Over, nil)
	render.StrokeRect(dst, canvas, th.CanvasBorder, 1)
	if ctx.Err() != nil {
		return
	}

	if st.Selected >= 0 && st.Selected < len(st.Annotations) {
		b := st.Annotations[st.Selected].Bounds()
		r := imageRectToScreen(b, st.Zoom, st.Offset)
		render.DashedRect(dst, r, 4, th.SelectionPrimary, th.SelectionSecondary)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return
	}

	drawMessage(dst, st)
}

// composeDocument flattens base, committed annotations, the drag preview and
// any pending text into one image-space frame, so what the canvas shows is
// exactly what a save would produce.
func composeDocument(st SceneState) *image.RGBA {
	b := st.Base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), st.Base, b.Min, draw.Src)
	for _, a := range st.Annotations {
		render.Draw(out, a)
	}
	if st.Preview != nil {
		render.Draw(out, *st.Preview)
	}
	if st.TextActive {
		render.Draw(out, anno.Annotation{
			Kind:     anno.KindText,
			Start:    st.TextPos,
			Text:     st.TextBuf + "|",
			Color:    paletteColorAt(st.ColorIdx),
			FontSize: fontSizeAt(st.FontIdx),
		})
	}
	return out
}

func buttonFill(th *theme.Theme, state ButtonState) color.RGBA {
	switch state {
	case StateHover:
		return th.ButtonBackgroundHover
	case StatePressed:
		return th.ButtonBackgroundPress
	case StateArmed:
		return th.ButtonBackgroundArmed
	}
	return th.ButtonBackground
}

func drawButton(dst *image.RGBA, r image.Rectangle, label string, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, r, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
	render.StrokeRect(dst, r, th.ButtonBorder, 1)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(th.ButtonText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(r.Min.X+4, r.Min.Y+(r.Dy()-13)/2+11),
	}
	d.DrawString(label)
}

func drawToolbar(dst *image.RGBA, st SceneState) {
	th := st.Theme
	bar := image.Rect(0, 0, toolbarWidth, st.Size.Y-statusHeight)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)

	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ToolbarText), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString("annotate-edit")

	for i, t := range toolOrder {
		state := StateDefault
		if t == st.Tool {
			state = StateArmed
		} else if i == st.HoverTool {
			state = StateHover
		}
		drawButton(dst, toolButtonRect(i), t.Label(), state, th)
	}

	for i, col := range Palette() {
		rect := swatchRect(i)
		draw.Draw(dst, rect, &image.Uniform{col}, image.Point{}, draw.Src)
		if i == st.HoverSwatch {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == st.ColorIdx {
			render.StrokeRect(dst, rect, th.SelectionPrimary, 2)
		} else {
			render.StrokeRect(dst, rect, th.ButtonBorder, 1)
		}
	}

	col := paletteColorAt(st.ColorIdx)
	for i, w := range WidthOptions() {
		rect := widthRect(i)
		state := StateDefault
		if i == st.WidthIdx {
			state = StatePressed
		} else if i == st.HoverWidth {
			state = StateHover
		}
		draw.Draw(dst, rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
			Dot: fixed.P(4, rect.Min.Y+12)}
		d.DrawString(fmt.Sprintf("%d", w))
		lineY := rect.Min.Y + widthRowHeight/2
		render.StrokeLine(dst, image.Pt(24, lineY), image.Pt(toolbarWidth-6, lineY), col, w)
	}

	if st.Tool == ToolText {
		for i, sz := range render.TextSizes() {
			rect := sizeRect(i)
			state := StateDefault
			if i == st.FontIdx {
				state = StatePressed
			} else if i == st.HoverSize {
				state = StateHover
			}
			draw.Draw(dst, rect, &image.Uniform{buttonFill(th, state)}, image.Point{}, draw.Src)
			_ = render.DrawText(dst, rect.Min.X+4, rect.Min.Y+4, fmt.Sprintf("%d Ab", sz), col, sz)
		}
	}
}

func drawStatus(dst *image.RGBA, st SceneState) {
	th := st.Theme
	bar := statusRect(st.Size)
	draw.Draw(dst, bar, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)

	chips := statusChips(st.TextActive)
	rects := chipRects(st.Size, chips)
	for i, c := range chips {
		state := StateDefault
		if i == st.HoverChip {
			state = StateHover
		}
		drawButton(dst, rects[i], c.label, state, th)
	}

	text := statusLine(st)
	meas := &font.Drawer{Face: basicfont.Face7x13}
	w := meas.MeasureString(text).Ceil()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(st.Size.X-w-6, bar.Min.Y+16)}
	d.DrawString(text)
}

func statusLine(st SceneState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s %dpx", st.Tool, paletteNameAt(st.ColorIdx), widthAt(st.WidthIdx))
	if st.Tool == ToolText {
		fmt.Fprintf(&sb, " %dpt", fontSizeAt(st.FontIdx))
	}
	fmt.Fprintf(&sb, "  %.0f%%", st.Zoom*100)
	if st.Dirty {
		sb.WriteString("  modified")
	}
	return sb.String()
}

func drawMessage(dst *image.RGBA, st SceneState) {
	if st.Message == "" || !time.Now().Before(st.MessageUntil) {
		return
	}
	th := st.Theme
	w, h, _, err := render.MeasureText(st.Message, messageTextSize)
	if err != nil {
		return
	}
	px := (st.Size.X - w) / 2
	py := (st.Size.Y - h) / 2
	box := image.Rect(px-10, py-8, px+w+10, py+h+8)
	draw.Draw(dst, box, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Over)
	render.StrokeRect(dst, box, th.ButtonBorder, 2)
	_ = render.DrawText(dst, px, py, st.Message, th.StatusText, messageTextSize)
}
