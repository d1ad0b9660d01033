// Package export writes the flattened image to document formats.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF embeds img full-bleed in a single-page PDF at path. The page is
// sized to the image in points, one point per pixel at 72 DPI, matching the
// renderer's font metrics.
func WritePDF(path string, img image.Image) error {
	bounds := img.Bounds()
	if bounds.Empty() {
		return fmt.Errorf("write pdf %s: empty image", path)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf page image: %w", err)
	}

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("flattened", opts, &buf)
	pdf.ImageOptions("flattened", 0, 0, w, h, false, opts, 0, "")
	if pdf.Err() {
		return fmt.Errorf("write pdf %s: %v", path, pdf.Error())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pdf.OutputAndClose(f); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}
