package report

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/go-pdf/fpdf"
)

// JPEGQuality is used for both the image export and the PDF page bitmap.
const JPEGQuality = 90

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapPDF places the bitmap on a single A4 landscape page, scaled to the
// page width with its aspect ratio kept.
func wrapPDF(img image.Image, title string) ([]byte, error) {
	raw, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}

	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: false}
	doc.RegisterImageOptionsReader("capture", opts, bytes.NewReader(raw))

	pageW, _ := doc.GetPageSize()
	b := img.Bounds()
	h := pageW * float64(b.Dy()) / float64(b.Dx())
	doc.ImageOptions("capture", 0, 0, pageW, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
