package report

import (
	"bytes"
	"strings"
)

// utf8BOM lets spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodeCSV writes the delimited-text export. Text fields of data lines are
// always quoted, numbers never are.
func EncodeCSV(rows []Row, loc Locale) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	for i, h := range loc.Headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quoteIfNeeded(h))
	}
	buf.WriteByte('\n')

	for _, r := range rows {
		for i, f := range r.Cells() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if numericColumn(i) {
				buf.WriteString(f)
			} else {
				buf.WriteString(quote(f))
			}
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, "\",\r\n") {
		return quote(s)
	}
	return s
}
