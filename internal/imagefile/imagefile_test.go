package imagefile

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 16), uint8(y * 20), 120, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return img
}

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		path string
		want Format
		err  bool
	}{
		{"shot.png", PNG, false},
		{"shot.PNG", PNG, false},
		{"photo.jpg", JPEG, false},
		{"photo.jpeg", JPEG, false},
		{"anim.gif", GIF, false},
		{"scan.tiff", TIFF, false},
		{"scan.tif", TIFF, false},
		{"old.bmp", BMP, false},
		{"web.webp", WebP, false},
		{"doc.pdf", PDF, false},
		{"noext", "", true},
		{"archive.tar.gz", "", true},
	}
	for _, c := range cases {
		got, err := FormatForPath(c.path)
		if c.err {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("FormatForPath(%q) err = %v, want ErrUnsupportedFormat", c.path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("FormatForPath(%q): %v", c.path, err)
			continue
		}
		if got != c.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", c.path, got, c.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.xyz")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("\x89PNG but not really"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := Load(path)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestLoadDecodesPixels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.png")
	want := writeTestPNG(t, path)

	got, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if format != PNG {
		t.Errorf("format = %s, want png", format)
	}
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds = %v, want %v", got.Bounds(), want.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {15, 11}, {7, 5}} {
		if got.RGBAAt(p.X, p.Y) != want.RGBAAt(p.X, p.Y) {
			t.Errorf("pixel %v = %v, want %v", p, got.RGBAAt(p.X, p.Y), want.RGBAAt(p.X, p.Y))
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	img := writeTestPNG(t, src)

	for _, ext := range []string{".png", ".jpg", ".gif", ".bmp", ".tiff"} {
		out := filepath.Join(dir, "out"+ext)
		if err := Save(out, img, Options{}); err != nil {
			t.Errorf("Save %s: %v", ext, err)
			continue
		}
		back, _, err := Load(out)
		if err != nil {
			t.Errorf("Load back %s: %v", ext, err)
			continue
		}
		if back.Bounds().Dx() != 16 || back.Bounds().Dy() != 12 {
			t.Errorf("%s: bounds = %v", ext, back.Bounds())
		}
	}
}

func TestSaveUnwritableFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dir := t.TempDir()
	for _, name := range []string{"out.webp", "out.xyz"} {
		err := Save(filepath.Join(dir, name), img, Options{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Save %s err = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestSavePDF(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := Save(path, img, Options{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("missing PDF header")
	}
}

func TestSavePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	img := writeTestPNG(t, src)
	before, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o555); err != nil {
		t.Fatal(err)
	}
	saveErr := Save(filepath.Join(locked, "out.png"), img, Options{})
	if !errors.Is(saveErr, ErrPermission) {
		t.Fatalf("err = %v, want ErrPermission", saveErr)
	}

	after, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("source file changed by a failed save")
	}
}

func TestCopyFileByteIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writeTestPNG(t, src)
	dst := filepath.Join(dir, "copy.png")

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	a, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("copy differs from source")
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct{ src, suffix, want string }{
		{"/tmp/shot.png", "_annotated", "/tmp/shot_annotated.png"},
		{"pic.jpeg", "_annotated", "pic_annotated.jpeg"},
		{"dir/noext", "_x", "dir/noext_x"},
	}
	for _, c := range cases {
		if got := OutputPath(c.src, c.suffix); got != c.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", c.src, c.suffix, got, c.want)
		}
	}
}
