//go:build linux || freebsd || openbsd || netbsd || dragonfly

package display

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// WorkArea queries the X server for the usable desktop rectangle. The
// _NET_WORKAREA property excludes panels and docks; when the window manager
// does not publish it the full screen size is used instead.
func WorkArea() (image.Rectangle, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return image.Rectangle{}, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return image.Rectangle{}, fmt.Errorf("xproto screen unavailable")
	}
	full := image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))

	if area, ok := readWorkArea(conn, screen.Root); ok {
		return area, nil
	}
	return full, nil
}

func readWorkArea(conn *xgb.Conn, root xproto.Window) (image.Rectangle, bool) {
	atom, err := internAtom(conn, "_NET_WORKAREA")
	if err != nil {
		return image.Rectangle{}, false
	}
	// Four CARD32 values per desktop; the first desktop's rectangle is enough.
	reply, err := xproto.GetProperty(conn, false, root, atom, xproto.AtomCardinal, 0, 4).Reply()
	if err != nil || reply.ValueLen < 4 || len(reply.Value) < 16 {
		return image.Rectangle{}, false
	}
	vals := make([]uint32, 4)
	for i := range vals {
		off := i * 4
		vals[i] = uint32(reply.Value[off]) | uint32(reply.Value[off+1])<<8 |
			uint32(reply.Value[off+2])<<16 | uint32(reply.Value[off+3])<<24
	}
	area := image.Rect(int(vals[0]), int(vals[1]), int(vals[0]+vals[2]), int(vals[1]+vals[3]))
	if area.Empty() {
		return image.Rectangle{}, false
	}
	return area, true
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}
