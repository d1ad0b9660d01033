// Package platform wraps the host notification facility behind one Notify
// call per OS.
package platform

// appName identifies this program to the host notification service.
const appName = "annotate-edit"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
}
