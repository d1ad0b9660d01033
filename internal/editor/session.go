package editor

import (
	"image"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/annotate-edit/internal/anno"
	"github.com/example/annotate-edit/internal/imagefile"
	"github.com/example/annotate-edit/internal/notify"
	"github.com/example/annotate-edit/internal/render"
	"github.com/example/annotate-edit/internal/theme"
)

type action int

const (
	actionNone action = iota
	actionDraw
	actionMove
	actionPan
)

const (
	// dragThreshold is the screen-pixel travel below which a shape drag
	// commits nothing.
	dragThreshold = 5
	hitSlack      = 4
	panStep       = 10
	minZoom       = 0.1
	maxZoom       = 10
	messageTime   = 2 * time.Second
)

// Session is the mutable editing state behind one window. Every method runs
// on the event-loop goroutine; nothing here is safe for concurrent use. The
// methods take plain event values and never touch the screen, so tests drive
// a session headlessly.
type Session struct {
	doc     *anno.Document
	history *anno.History
	log     zerolog.Logger

	source          string
	srcFormat       imagefile.Format
	output          string
	quality         int
	shadow          bool
	shadowOpts      render.ShadowOptions
	clipboardOnSave bool
	notifier        *notify.Notifier
	copyFunc        func(image.Image) error

	tool     Tool
	colorIdx int
	widthIdx int
	fontIdx  int

	winSize image.Point
	zoom    float64
	offset  image.Point

	act         action
	pressScreen image.Point
	dragStart   image.Point
	dragCur     image.Point
	points      []image.Point
	moveIdx     int
	moveOrig    anno.Annotation
	panStart    image.Point
	panOrig     image.Point

	selected int

	textActive bool
	textPos    image.Point
	textBuf    []rune

	hoverTool   int
	hoverSwatch int
	hoverWidth  int
	hoverSize   int
	hoverChip   int

	message      string
	messageUntil time.Time
	confirmQuit  bool
	quit         bool

	dirty      bool
	savedOK    bool
	saveFailed bool

	actions   map[string]func()
	keyAction map[KeyShortcut]string
}

func newSession(e *Editor) *Session {
	s := &Session{
		doc:             e.doc,
		history:         anno.NewHistory(anno.DefaultHistoryDepth),
		log:             e.log,
		source:          e.source,
		srcFormat:       e.srcFormat,
		output:          e.output,
		quality:         e.quality,
		shadow:          e.shadow,
		shadowOpts:      e.shadowOpts,
		clipboardOnSave: e.clipboardOnSave,
		notifier:        e.notifier,
		copyFunc:        e.copyFunc,
		tool:            e.tool,
		colorIdx:        clampColorIndex(e.colorIdx),
		widthIdx:        clampWidthIndex(e.widthIdx),
		fontIdx:         clampFontIndex(e.fontIdx),
		zoom:            1,
		selected:        -1,
		moveIdx:         -1,
		hoverTool:       -1,
		hoverSwatch:     -1,
		hoverWidth:      -1,
		hoverSize:       -1,
		hoverChip:       -1,
	}
	s.registerActions()
	return s
}

func (s *Session) registerActions() {
	s.actions = map[string]func(){}
	s.keyAction = map[KeyShortcut]string{}

	register := func(name string, keys KeyboardShortcuts, fn func()) {
		s.actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				s.keyAction[sc] = name
			}
		}
	}

	register("save", shortcutList{
		{Rune: 's', Modifiers: key.ModControl},
		{Code: key.CodeS, Modifiers: key.ModControl},
	}, s.save)
	register("copy", shortcutList{
		{Rune: 'c', Modifiers: key.ModControl},
		{Code: key.CodeC, Modifiers: key.ModControl},
	}, s.copyImage)
	register("undo", shortcutList{
		{Rune: 'z', Modifiers: key.ModControl},
		{Code: key.CodeZ, Modifiers: key.ModControl},
	}, s.undo)
	register("redo", shortcutList{
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
		{Rune: 'y', Modifiers: key.ModControl},
		{Code: key.CodeY, Modifiers: key.ModControl},
	}, s.redo)
	register("delete", shortcutList{
		{Code: key.CodeDeleteForward},
		{Code: key.CodeDeleteBackspace},
	}, s.deleteSelection)
	register("fit", shortcutList{{Rune: '0'}}, s.resetView)
	register("quit", shortcutList{{Rune: 'q'}}, s.requestQuit)
	register("textdone", nil, s.commitText)
	register("textcancel", nil, s.cancelText)
}

// trigger runs a named action, the path the status bar chips use.
func (s *Session) trigger(name string) bool {
	fn, ok := s.actions[name]
	if !ok {
		return false
	}
	fn()
	return true
}

func (s *Session) toImage(p image.Point) image.Point {
	return screenToImage(p, s.zoom, s.offset)
}

// handleMouse dispatches a mouse event. The return value reports whether the
// frame needs repainting.
func (s *Session) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
		if e.Direction == mouse.DirRelease {
			return false
		}
		steps := 1
		if e.Button == mouse.ButtonWheelDown {
			steps = -1
		}
		s.zoomAt(steps, p)
		return true
	}
	switch e.Direction {
	case mouse.DirPress:
		return s.pointerDown(p, e.Button)
	case mouse.DirRelease:
		return s.pointerUp(p, e.Button)
	default:
		return s.pointerMove(p)
	}
}

func (s *Session) pointerDown(p image.Point, btn mouse.Button) bool {
	// An active message absorbs the press, except on the status bar so its
	// chips keep working while the message shows.
	if s.message != "" && time.Now().Before(s.messageUntil) {
		s.messageUntil = time.Time{}
		if !p.In(statusRect(s.winSize)) {
			return true
		}
	}
	if btn == mouse.ButtonMiddle {
		s.act = actionPan
		s.panStart = p
		s.panOrig = s.offset
		return true
	}
	if btn != mouse.ButtonLeft {
		return false
	}
	if p.In(statusRect(s.winSize)) {
		return s.statusClick(p)
	}
	s.confirmQuit = false
	if p.X < toolbarWidth {
		return s.toolbarClick(p)
	}

	ip := s.toImage(p)
	if s.textActive {
		s.commitText()
		if s.tool != ToolText {
			return true
		}
	}
	switch {
	case s.tool == ToolText:
		s.startText(ip)
	case s.tool == ToolSelect:
		if idx, ok := s.doc.Hit(ip, hitSlack); ok {
			a, _ := s.doc.At(idx)
			s.selected = idx
			s.act = actionMove
			s.moveIdx = idx
			s.moveOrig = a
			s.dragStart = ip
			s.dragCur = ip
		} else {
			s.selected = -1
		}
	case s.tool.draws():
		s.act = actionDraw
		s.pressScreen = p
		s.dragStart = ip
		s.dragCur = ip
		if s.tool == ToolStroke {
			s.points = s.points[:0]
			s.appendStrokePoint(ip)
		}
	}
	return true
}

func (s *Session) pointerMove(p image.Point) bool {
	switch s.act {
	case actionPan:
		d := p.Sub(s.panStart)
		s.offset = s.panOrig.Add(image.Pt(int(float64(d.X)/s.zoom), int(float64(d.Y)/s.zoom)))
		return true
	case actionDraw:
		ip := s.toImage(p)
		s.dragCur = ip
		if s.tool == ToolStroke {
			s.appendStrokePoint(ip)
		}
		return true
	case actionMove:
		s.dragCur = s.toImage(p)
		return true
	}
	return s.updateHover(p)
}

func (s *Session) pointerUp(p image.Point, btn mouse.Button) bool {
	if btn == mouse.ButtonMiddle && s.act == actionPan {
		s.act = actionNone
		return true
	}
	if btn != mouse.ButtonLeft {
		return false
	}
	switch s.act {
	case actionDraw:
		ip := s.toImage(p)
		s.dragCur = ip
		if s.tool == ToolStroke {
			s.appendStrokePoint(ip)
		}
		s.commitDrag(p)
		s.act = actionNone
		s.points = nil
		return true
	case actionMove:
		s.dragCur = s.toImage(p)
		d := s.dragCur.Sub(s.dragStart)
		if d != (image.Point{}) {
			s.history.Push(s.doc.Annotations())
			s.doc.ReplaceAt(s.moveIdx, s.moveOrig.Translated(d))
			s.dirty = true
		}
		s.act = actionNone
		s.moveIdx = -1
		return true
	}
	return false
}

func (s *Session) appendStrokePoint(ip image.Point) {
	if n := len(s.points); n > 0 && s.points[n-1] == ip {
		return
	}
	s.points = append(s.points, ip)
}

// pendingAnnotation builds the annotation the current drag would commit.
func (s *Session) pendingAnnotation() (anno.Annotation, bool) {
	kind, ok := kindForTool(s.tool)
	if !ok || s.tool == ToolText {
		return anno.Annotation{}, false
	}
	a := anno.Annotation{
		Kind:  kind,
		Color: paletteColorAt(s.colorIdx),
		Width: widthAt(s.widthIdx),
	}
	switch s.tool {
	case ToolStroke:
		a.Points = append([]image.Point(nil), s.points...)
	case ToolHighlight:
		a.Start, a.End = s.dragStart, s.dragCur
		a.Fill = true
		a.Color.A = highlightAlpha
	default:
		a.Start, a.End = s.dragStart, s.dragCur
	}
	return a, true
}

// commitDrag finishes a draw drag. Shape drags shorter than dragThreshold in
// screen pixels and degenerate results are dropped without touching history.
func (s *Session) commitDrag(releaseScreen image.Point) {
	if s.tool != ToolStroke {
		d := releaseScreen.Sub(s.pressScreen)
		if d.X*d.X+d.Y*d.Y < dragThreshold*dragThreshold {
			return
		}
	}
	a, ok := s.pendingAnnotation()
	if !ok || a.Degenerate() {
		return
	}
	s.commit(a)
}

func (s *Session) commit(a anno.Annotation) {
	s.history.Push(s.doc.Annotations())
	s.doc.Append(a)
	s.dirty = true
}

func (s *Session) statusClick(p image.Point) bool {
	chips := statusChips(s.textActive)
	for i, r := range chipRects(s.winSize, chips) {
		if p.In(r) {
			if chips[i].action != "quit" {
				s.confirmQuit = false
			}
			return s.trigger(chips[i].action)
		}
	}
	return false
}

func (s *Session) toolbarClick(p image.Point) bool {
	for i, t := range toolOrder {
		if p.In(toolButtonRect(i)) {
			s.setTool(t)
			return true
		}
	}
	for i := 0; i < paletteLen(); i++ {
		if p.In(swatchRect(i)) {
			s.colorIdx = i
			return true
		}
	}
	for i := 0; i < widthsLen(); i++ {
		if p.In(widthRect(i)) {
			s.widthIdx = i
			return true
		}
	}
	if s.tool == ToolText {
		for i := range render.TextSizes() {
			if p.In(sizeRect(i)) {
				s.fontIdx = i
				return true
			}
		}
	}
	return false
}

func (s *Session) updateHover(p image.Point) bool {
	ht, hs, hw, hz, hc := -1, -1, -1, -1, -1
	switch {
	case p.In(statusRect(s.winSize)):
		chips := statusChips(s.textActive)
		for i, r := range chipRects(s.winSize, chips) {
			if p.In(r) {
				hc = i
				break
			}
		}
	case p.X < toolbarWidth:
		for i := range toolOrder {
			if p.In(toolButtonRect(i)) {
				ht = i
				break
			}
		}
		if ht < 0 {
			for i := 0; i < paletteLen(); i++ {
				if p.In(swatchRect(i)) {
					hs = i
					break
				}
			}
		}
		if ht < 0 && hs < 0 {
			for i := 0; i < widthsLen(); i++ {
				if p.In(widthRect(i)) {
					hw = i
					break
				}
			}
		}
		if s.tool == ToolText && ht < 0 && hs < 0 && hw < 0 {
			for i := range render.TextSizes() {
				if p.In(sizeRect(i)) {
					hz = i
					break
				}
			}
		}
	}
	changed := ht != s.hoverTool || hs != s.hoverSwatch || hw != s.hoverWidth ||
		hz != s.hoverSize || hc != s.hoverChip
	s.hoverTool, s.hoverSwatch, s.hoverWidth, s.hoverSize, s.hoverChip = ht, hs, hw, hz, hc
	return changed
}

// handleKey dispatches a key press. Text entry consumes keys first, then the
// shortcut table, then tool mnemonics and view keys.
func (s *Session) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if s.textActive {
		switch e.Code {
		case key.CodeReturnEnter:
			s.commitText()
			return true
		case key.CodeEscape:
			s.cancelText()
			return true
		case key.CodeDeleteBackspace:
			if len(s.textBuf) > 0 {
				s.textBuf = s.textBuf[:len(s.textBuf)-1]
				return true
			}
			return false
		}
		if e.Rune > 0 && e.Modifiers&key.ModControl == 0 {
			s.textBuf = append(s.textBuf, e.Rune)
			return true
		}
		return false
	}

	if name, ok := s.shortcutFor(e); ok {
		if name != "quit" {
			s.confirmQuit = false
		}
		s.actions[name]()
		return true
	}
	s.confirmQuit = false

	if e.Modifiers == 0 {
		if t, ok := toolMnemonics[unicode.ToLower(e.Rune)]; ok {
			s.setTool(t)
			return true
		}
	}

	switch e.Rune {
	case '[':
		s.cycleWidth(-1)
		return true
	case ']':
		s.cycleWidth(1)
		return true
	case '+', '=':
		s.zoomAt(1, s.viewportCenter())
		return true
	case '-':
		s.zoomAt(-1, s.viewportCenter())
		return true
	case -1:
		switch e.Code {
		case key.CodeEscape:
			if s.selected >= 0 {
				s.selected = -1
				return true
			}
			s.requestQuit()
			return true
		case key.CodeLeftArrow:
			s.offset.X -= panStep
			return true
		case key.CodeRightArrow:
			s.offset.X += panStep
			return true
		case key.CodeUpArrow:
			s.offset.Y -= panStep
			return true
		case key.CodeDownArrow:
			s.offset.Y += panStep
			return true
		}
	}
	return false
}

// shortcutFor resolves a key event against the shortcut table, first by rune
// and then by key code, so shortcuts fire whichever of the two the driver
// reports.
func (s *Session) shortcutFor(e key.Event) (string, bool) {
	r := e.Rune
	if r > 0 {
		r = unicode.ToLower(r)
	}
	if name, ok := s.keyAction[KeyShortcut{Rune: r, Modifiers: e.Modifiers}]; ok {
		return name, true
	}
	name, ok := s.keyAction[KeyShortcut{Code: e.Code, Modifiers: e.Modifiers}]
	return name, ok
}

func (s *Session) setTool(t Tool) {
	s.tool = t
	s.act = actionNone
	if t != ToolSelect {
		s.selected = -1
	}
}

func (s *Session) cycleWidth(d int) {
	n := widthsLen()
	if n == 0 {
		return
	}
	s.widthIdx = (s.widthIdx + d + n) % n
}

func (s *Session) viewportCenter() image.Point {
	v := viewportRect(s.winSize)
	return image.Pt((v.Min.X+v.Max.X)/2, (v.Min.Y+v.Max.Y)/2)
}

// zoomAt scales the view by 10% per step, keeping the image point under the
// cursor stationary.
func (s *Session) zoomAt(steps int, at image.Point) {
	anchor := s.toImage(at)
	z := s.zoom * (1 + 0.1*float64(steps))
	if z < minZoom {
		z = minZoom
	}
	if z > maxZoom {
		z = maxZoom
	}
	s.zoom = z
	s.offset = image.Pt(
		int(float64(at.X-toolbarWidth)/z)-anchor.X,
		int(float64(at.Y)/z)-anchor.Y,
	)
}

// resetView returns to fit zoom, never upscaling, with the pan cleared.
func (s *Session) resetView() {
	z := fitZoom(s.doc.Size(), s.winSize)
	if z > 1 {
		z = 1
	}
	s.zoom = z
	s.offset = image.Point{}
}

func (s *Session) startText(ip image.Point) {
	s.textActive = true
	s.textPos = ip
	s.textBuf = s.textBuf[:0]
	s.act = actionNone
}

func (s *Session) commitText() {
	if !s.textActive {
		return
	}
	s.textActive = false
	a := anno.Annotation{
		Kind:     anno.KindText,
		Start:    s.textPos,
		Text:     string(s.textBuf),
		Color:    paletteColorAt(s.colorIdx),
		FontSize: fontSizeAt(s.fontIdx),
	}
	s.textBuf = s.textBuf[:0]
	if a.Degenerate() {
		return
	}
	s.commit(a)
}

func (s *Session) cancelText() {
	s.textActive = false
	s.textBuf = s.textBuf[:0]
}

func (s *Session) undo() {
	list, ok := s.history.Undo(s.doc.Annotations())
	if !ok {
		return
	}
	s.doc.SetAnnotations(list)
	s.selected = -1
	s.dirty = true
}

func (s *Session) redo() {
	list, ok := s.history.Redo(s.doc.Annotations())
	if !ok {
		return
	}
	s.doc.SetAnnotations(list)
	s.selected = -1
	s.dirty = true
}

func (s *Session) deleteSelection() {
	if s.selected < 0 {
		return
	}
	s.history.Push(s.doc.Annotations())
	s.doc.RemoveAt(s.selected)
	s.selected = -1
	s.dirty = true
}

func (s *Session) requestQuit() {
	if s.dirty && !s.confirmQuit {
		s.confirmQuit = true
		s.showMessage("unsaved changes, press again to quit")
		return
	}
	s.quit = true
}

func (s *Session) showMessage(msg string) {
	s.message = msg
	s.messageUntil = time.Now().Add(messageTime)
}

// flattened renders the document for output, with the drop shadow applied
// when enabled.
func (s *Session) flattened() *image.RGBA {
	img := render.Flatten(s.doc)
	if s.shadow {
		img = render.ApplyShadow(img, s.shadowOpts)
	}
	return img
}

// save writes the document to the output path. An untouched document headed
// for its own format is copied byte for byte so lossy sources survive intact.
func (s *Session) save() {
	path := s.output
	format, err := imagefile.FormatForPath(path)
	if err != nil {
		s.failSave(err)
		return
	}
	var img *image.RGBA
	if !s.doc.Modified() && !s.shadow && format == s.srcFormat {
		err = imagefile.CopyFile(s.source, path)
	} else {
		img = s.flattened()
		err = imagefile.Save(path, img, imagefile.Options{JPEGQuality: s.quality})
	}
	if err != nil {
		s.failSave(err)
		return
	}
	if s.clipboardOnSave {
		if img == nil {
			img = s.flattened()
		}
		if cerr := s.copyFunc(img); cerr != nil {
			s.log.Warn().Err(cerr).Msg("clipboard")
		}
	}
	s.dirty = false
	s.savedOK = true
	s.saveFailed = false
	s.showMessage("saved " + path)
	s.log.Info().Str("path", path).Msg("saved")
	if s.notifier != nil {
		if format == imagefile.PDF {
			s.notifier.Export(path, img)
		} else {
			s.notifier.Save(path)
		}
	}
}

func (s *Session) failSave(err error) {
	s.saveFailed = true
	s.log.Error().Err(err).Str("path", s.output).Msg("save")
	s.showMessage("save failed: " + err.Error())
}

func (s *Session) copyImage() {
	img := render.Flatten(s.doc)
	if err := s.copyFunc(img); err != nil {
		s.log.Error().Err(err).Msg("copy")
		s.showMessage("copy failed: " + err.Error())
		return
	}
	s.showMessage("copied to clipboard")
	s.log.Info().Msg("copied to clipboard")
	if s.notifier != nil {
		s.notifier.Copy(img)
	}
}

// sceneAnnotations is the committed sequence with the in-flight move applied,
// so a drag previews without mutating the document.
func (s *Session) sceneAnnotations() []anno.Annotation {
	annos := s.doc.Annotations()
	if s.act == actionMove && s.moveIdx >= 0 && s.moveIdx < len(annos) {
		annos[s.moveIdx] = s.moveOrig.Translated(s.dragCur.Sub(s.dragStart))
	}
	return annos
}

func (s *Session) preview() *anno.Annotation {
	if s.act != actionDraw {
		return nil
	}
	a, ok := s.pendingAnnotation()
	if !ok {
		return nil
	}
	return &a
}

// sceneState snapshots the session for the paint goroutine.
func (s *Session) sceneState(th *theme.Theme) SceneState {
	return SceneState{
		Size:         s.winSize,
		Base:         s.doc.Base(),
		Annotations:  s.sceneAnnotations(),
		Preview:      s.preview(),
		Selected:     s.selected,
		Tool:         s.tool,
		ColorIdx:     s.colorIdx,
		WidthIdx:     s.widthIdx,
		FontIdx:      s.fontIdx,
		Zoom:         s.zoom,
		Offset:       s.offset,
		TextActive:   s.textActive,
		TextPos:      s.textPos,
		TextBuf:      string(s.textBuf),
		Message:      s.message,
		MessageUntil: s.messageUntil,
		Dirty:        s.dirty,
		Theme:        th,
		HoverTool:    s.hoverTool,
		HoverSwatch:  s.hoverSwatch,
		HoverWidth:   s.hoverWidth,
		HoverSize:    s.hoverSize,
		HoverChip:    s.hoverChip,
	}
}
