// Package notify sends desktop notifications for editor events. Failures are
// logged and never interrupt the edit flow.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/annotate-edit/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when the annotated image is written to disk.
	EventSave Event = "save"
	// EventCopy fires when the result is copied to the clipboard.
	EventCopy Event = "copy"
	// EventExport fires when the result is exported to PDF.
	EventExport Event = "export"
)

// EventPreference describes formatting for one event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the built-in notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "annotate-edit",
		Events: map[Event]EventPreference{
			EventSave:   {Template: "Saved %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
			EventExport: {Template: "Exported %s"},
		},
	}
}

// LoadPreferences applies ANNOTATE_EDIT_NOTIFY_* template overrides on top of
// the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("ANNOTATE_EDIT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			pref := prefs.Events[event]
			pref.Template = v
			prefs.Events[event] = pref
		}
	}
	apply("ANNOTATE_EDIT_NOTIFY_SAVE_TEXT", EventSave)
	apply("ANNOTATE_EDIT_NOTIFY_COPY_TEXT", EventCopy)
	apply("ANNOTATE_EDIT_NOTIFY_EXPORT_TEXT", EventExport)
	return prefs
}

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     zerolog.Logger
	send    func(title, body string, opts platform.Options) error
}

// New creates a Notifier. All events start disabled.
func New(prefs Preferences, log zerolog.Logger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		log:     log,
		send:    platform.Notify,
	}
}

// Enable toggles the notifier for one event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// ApplyEnvOverrides lets ANNOTATE_EDIT_NOTIFY_{SAVE,COPY,EXPORT} force an
// event on or off over the configured value.
func (n *Notifier) ApplyEnvOverrides() {
	if n == nil {
		return
	}
	for _, ev := range []Event{EventSave, EventCopy, EventExport} {
		key := "ANNOTATE_EDIT_NOTIFY_" + strings.ToUpper(string(ev))
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			n.log.Warn().Str("var", key).Str("value", v).Msg("ignoring invalid notification override")
			continue
		}
		n.enabled[ev] = b
	}
}

// Save notifies that the annotated image was written, using the written file
// itself as the icon when the platform can render it.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil && strings.ToLower(filepath.Ext(abs)) != ".pdf" {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy notifies that the result landed on the clipboard, with a rendered
// preview as the icon when available.
func (n *Notifier) Copy(img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := n.createPreview(img); err != nil {
			n.log.Warn().Err(err).Msg("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, "image", opts)
}

// Export notifies that a PDF was written. PDF files make poor icons, so the
// preview comes from the flattened raster instead.
func (n *Notifier) Export(path string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
	}
	opts := platform.Options{}
	if img != nil {
		if iconPath, cleanup, err := n.createPreview(img); err != nil {
			n.log.Warn().Err(err).Msg("notification preview")
		} else {
			defer cleanup()
			opts.IconPath = iconPath
		}
	}
	n.dispatch(EventExport, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warn().Err(err).Str("event", string(event)).Msg("notification failed")
	}
}

func (n *Notifier) createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "annotate-edit-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			n.log.Warn().Err(err).Msg("remove preview")
		}
	}
	return path, cleanup, nil
}
