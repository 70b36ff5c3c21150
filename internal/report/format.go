package report

import (
	"fmt"
	"strings"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLS  Format = "xls"
	FormatPDF  Format = "pdf"
	FormatJPEG Format = "jpeg"
)

// ParseFormat accepts the format names plus the usual extension aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xls", "excel":
		return FormatXLS, nil
	case "pdf":
		return FormatPDF, nil
	case "jpeg", "jpg", "image":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Ext is the file extension of the format.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// ContentType is the MIME type the payload is served with.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLS:
		return "application/vnd.ms-excel"
	case FormatPDF:
		return "application/pdf"
	case FormatJPEG:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// Raster reports whether the format goes through surface capture.
func (f Format) Raster() bool {
	return f == FormatPDF || f == FormatJPEG
}
