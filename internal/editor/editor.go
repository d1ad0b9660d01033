// Package editor owns the interactive annotation window: the event loop, the
// paint goroutine, and the session state machine the events drive. Everything
// that touches the screen lives in this package; the annotation model and the
// rasterizer know nothing about windows.
package editor

import (
	"context"
	"image"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/annotate-edit/internal/anno"
	"github.com/example/annotate-edit/internal/clipboard"
	"github.com/example/annotate-edit/internal/display"
	"github.com/example/annotate-edit/internal/imagefile"
	"github.com/example/annotate-edit/internal/notify"
	"github.com/example/annotate-edit/internal/render"
	"github.com/example/annotate-edit/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// Editor wires a document to a window. Construct with New, configure with
// options, then Run blocks until the window closes.
type Editor struct {
	doc             *anno.Document
	source          string
	srcFormat       imagefile.Format
	output          string
	title           string
	quality         int
	shadow          bool
	shadowOpts      render.ShadowOptions
	clipboardOnSave bool
	th              *theme.Theme
	tool            Tool
	colorIdx        int
	widthIdx        int
	fontIdx         int
	notifier        *notify.Notifier
	log             zerolog.Logger
	copyFunc        func(image.Image) error
	onClose         func()
	closeOnce       sync.Once

	mu         sync.Mutex
	savedOK    bool
	saveFailed bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithSource records where the document was loaded from and in which format,
// enabling the byte-copy save path for untouched documents.
func WithSource(path string, format imagefile.Format) Option {
	return func(e *Editor) {
		e.source = path
		e.srcFormat = format
	}
}

// WithOutput sets the save target.
func WithOutput(path string) Option {
	return func(e *Editor) { e.output = path }
}

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(e *Editor) { e.title = title }
}

// WithJPEGQuality sets the encoder quality for JPEG targets.
func WithJPEGQuality(q int) Option {
	return func(e *Editor) { e.quality = q }
}

// WithShadow composites a drop shadow around the flattened image on save.
func WithShadow(enabled bool) Option {
	return func(e *Editor) { e.shadow = enabled }
}

// WithClipboardOnSave also places the flattened image on the clipboard after
// every successful save.
func WithClipboardOnSave(enabled bool) Option {
	return func(e *Editor) { e.clipboardOnSave = enabled }
}

// WithTheme sets the chrome palette.
func WithTheme(th *theme.Theme) Option {
	return func(e *Editor) {
		if th != nil {
			e.th = th
		}
	}
}

// WithTool sets the tool armed at startup.
func WithTool(t Tool) Option {
	return func(e *Editor) { e.tool = t }
}

// WithColorIndex sets the startup palette index.
func WithColorIndex(idx int) Option {
	return func(e *Editor) { e.colorIdx = idx }
}

// WithWidthIndex sets the startup stroke width index.
func WithWidthIndex(idx int) Option {
	return func(e *Editor) { e.widthIdx = idx }
}

// WithFontSize sets the startup text size, snapped to the nearest offered one.
func WithFontSize(size int) Option {
	return func(e *Editor) { e.fontIdx = fontIndexFor(size) }
}

// WithNotifier enables desktop notifications for save, copy and export.
func WithNotifier(n *notify.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// WithOnClose registers a listener called once when the window goes away.
func WithOnClose(fn func()) Option {
	return func(e *Editor) { e.onClose = fn }
}

// New builds an editor over doc. The document is owned by the editor from
// here on.
func New(doc *anno.Document, opts ...Option) *Editor {
	e := &Editor{
		doc:        doc,
		title:      "annotate-edit",
		quality:    imagefile.DefaultJPEGQuality,
		shadowOpts: render.DefaultShadowOptions(),
		th:         theme.Default(),
		tool:       ToolArrow,
		colorIdx:   defaultColorIndex,
		widthIdx:   defaultWidthIndex,
		fontIdx:    fontIndexFor(render.DefaultTextSize()),
		log:        zerolog.Nop(),
		copyFunc:   clipboard.WriteImage,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run executes the UI loop using shiny's driver. It blocks until the window
// closes.
func (e *Editor) Run() { driver.Main(e.main) }

// Failed reports whether the most recent save attempt failed with no
// successful save after it. The command maps this to the exit code.
func (e *Editor) Failed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveFailed
}

// Saved reports whether any save succeeded during the session.
func (e *Editor) Saved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.savedOK
}

func (e *Editor) notifyClose() {
	e.closeOnce.Do(func() {
		if e.onClose != nil {
			e.onClose()
		}
	})
}

func (e *Editor) setResult(sess *Session) {
	e.mu.Lock()
	e.savedOK = sess.savedOK
	e.saveFailed = sess.saveFailed
	e.mu.Unlock()
}

func (e *Editor) main(s screen.Screen) {
	measureToolbarWidth(e.title)

	work, err := display.WorkArea()
	if err != nil {
		e.log.Warn().Err(err).Msg("work area")
		work = display.DefaultWorkArea()
	}
	win := display.FitWindow(e.doc.Size(), work, image.Pt(toolbarWidth, statusHeight))

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: win.X, Height: win.Y, Title: e.title})
	if err != nil {
		e.log.Error().Err(err).Msg("new window")
		return
	}
	defer w.Release()
	defer e.notifyClose()

	sess := newSession(e)
	sess.winSize = win
	if z := fitZoom(e.doc.Size(), win); z < 1 {
		sess.zoom = z
	}
	defer e.setResult(sess)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan SceneState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st, e.log)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			sess.winSize = image.Pt(ev.WidthPx, ev.HeightPx)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := sess.sceneState(e.th)
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			if sess.handleMouse(ev) {
				if sess.quit {
					stopPaint()
					return
				}
				w.Send(paint.Event{})
			}
		case key.Event:
			if sess.handleKey(ev) {
				if sess.quit {
					stopPaint()
					return
				}
				w.Send(paint.Event{})
			}
		}
	}
}

func drawFrame(ctx context.Context, scr screen.Screen, w screen.Window, st SceneState, log zerolog.Logger) {
	if st.Size.X <= 0 || st.Size.Y <= 0 {
		return
	}
	b, err := scr.NewBuffer(st.Size)
	if err != nil {
		log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()
	drawScene(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
