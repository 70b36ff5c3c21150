package report

import (
	"bytes"
	"html"
)

const xlsHeaderStyle = "background-color:#f0f0f0;font-weight:bold;border:1px solid #999"

// EncodeXLS writes the spreadsheet-markup export: an HTML table that
// spreadsheet applications open natively when served as .xls.
func EncodeXLS(rows []Row, loc Locale) []byte {
	var buf bytes.Buffer
	buf.WriteString(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">`)
	buf.WriteString("<head><meta charset=\"UTF-8\"></head><body>\n<table border=\"1\">\n<thead><tr>")
	for _, h := range loc.Headers {
		buf.WriteString(`<th style="` + xlsHeaderStyle + `">`)
		buf.WriteString(html.EscapeString(h))
		buf.WriteString("</th>")
	}
	buf.WriteString("</tr></thead>\n<tbody>\n")
	for _, r := range rows {
		buf.WriteString("<tr>")
		for i, f := range r.Cells() {
			if numericColumn(i) {
				buf.WriteString(`<td style="mso-number-format:'General'">`)
			} else {
				buf.WriteString("<td>")
			}
			buf.WriteString(html.EscapeString(f))
			buf.WriteString("</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</tbody>\n</table>\n</body></html>\n")
	return buf.Bytes()
}
