package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/models"
)

// Request is one export of an already filtered record set.
type Request struct {
	Records  []models.DemandRecord
	Mode     demand.Mode
	Period   demand.Period
	Format   Format
	Scope    string
	IssuedAt time.Time
}

// Payload is a finished export file.
type Payload struct {
	Body        []byte
	ContentType string
	Filename    string
	Rows        int
}

// Exporter turns record sets into downloadable reports.
type Exporter struct {
	Locale     Locale
	Rasterizer Rasterizer
}

// NewExporter returns an exporter with the built-in table rasterizer.
func NewExporter(loc Locale) *Exporter {
	return &Exporter{Locale: loc, Rasterizer: NewTableRasterizer()}
}

// Export encodes req. Tabular formats are encoded straight from the rows;
// raster formats lay the rows out on a surface, prepare it and capture it.
// A failed capture returns no payload.
func (e *Exporter) Export(ctx context.Context, req Request) (*Payload, error) {
	if req.IssuedAt.IsZero() {
		req.IssuedAt = time.Now()
	}
	rows := BuildRows(req.Records, Options{Mode: req.Mode, Period: req.Period, Labels: e.Locale.Labels})

	var (
		body []byte
		err  error
	)
	switch req.Format {
	case FormatCSV:
		body = EncodeCSV(rows, e.Locale)
	case FormatXLS:
		body = EncodeXLS(rows, e.Locale)
	case FormatPDF, FormatJPEG:
		surface := NewSurface(rows, e.Locale, req.Mode)
		body, err = e.Capture(ctx, surface, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, err
	}

	return &Payload{
		Body:        body,
		ContentType: req.Format.ContentType(),
		Filename:    Filename(e.Locale, req.Scope, req.IssuedAt, req.Format),
		Rows:        len(rows),
	}, nil
}

// Capture prepares s, renders it once and encodes the bitmap as req.Format.
// There is no retry.
func (e *Exporter) Capture(ctx context.Context, s *Surface, req Request) ([]byte, error) {
	if s == nil || e.Rasterizer == nil {
		return nil, ErrSurfaceUnavailable
	}
	s.PrepareForCapture(e.Locale, req.Scope, req.IssuedAt)

	img, err := e.Rasterizer.Rasterize(ctx, s)
	if err != nil {
		if errors.Is(err, ErrSurfaceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty bitmap", ErrCaptureFailed)
	}

	var body []byte
	if req.Format == FormatPDF {
		body, err = wrapPDF(img, s.Header.Title)
	} else {
		body, err = encodeJPEG(img)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return body, nil
}
