// Package imagefile reads and writes the raster files the editor works on.
// The format is inferred from the path extension, never from content sniffing,
// so the file a user asked for is the file they get back.
package imagefile

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/annotate-edit/internal/export"
)

// Format names a supported file format. The zero value is invalid.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
	PDF  Format = "pdf"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// Options control encoding on Save.
type Options struct {
	JPEGQuality int
}

// FormatForPath maps a path extension to its Format.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".gif":
		return GIF, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".webp":
		return WebP, nil
	case ".pdf":
		return PDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Writable reports whether Save can encode the format. WebP decodes only.
func (f Format) Writable() bool {
	switch f {
	case PNG, JPEG, GIF, BMP, TIFF, PDF:
		return true
	}
	return false
}

// Load decodes the image at path into an RGBA buffer and reports its format.
// It never opens a window or touches the display; a missing file is reported
// as ErrNotFound before any decode work happens.
func Load(path string) (*image.RGBA, Format, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	format, err := FormatForPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", path, err)
	}
	if format == PDF {
		return nil, "", fmt.Errorf("load %s: %w: pdf is write-only", path, ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, format, nil
}

// Save encodes img to path, choosing the encoder from the extension. The
// source of the edit is never written to by Save, so a failure here leaves it
// untouched.
func Save(path string, img image.Image, opts Options) error {
	format, err := FormatForPath(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if !format.Writable() {
		return fmt.Errorf("save %s: %w: %s is read-only", path, ErrUnsupportedFormat, format)
	}
	if format == PDF {
		if err := export.WritePDF(path, img); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return fmt.Errorf("%w: %s", ErrPermission, path)
			}
			return fmt.Errorf("%w: %s: %v", ErrEncode, path, err)
		}
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermission, path)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	encErr := encode(f, img, format, opts)
	closeErr := f.Close()
	if encErr != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, path, encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}
	return nil
}

func encode(w io.Writer, img image.Image, format Format, opts Options) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case GIF:
		return gif.Encode(w, img, nil)
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("no encoder for %s", format)
}

// CopyFile copies src to dst byte for byte. Saving an unmodified document goes
// through here so the output matches the original exactly, lossy formats
// included.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, src)
		}
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("%w: %s", ErrPermission, dst)
		}
		return fmt.Errorf("create %s: %w", dst, err)
	}
	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("copy %s: %w", dst, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", dst, closeErr)
	}
	return nil
}

// OutputPath derives the default save target for src: the same directory and
// extension with suffix spliced in before the extension.
func OutputPath(src, suffix string) string {
	ext := filepath.Ext(src)
	stem := strings.TrimSuffix(src, ext)
	return stem + suffix + ext
}
