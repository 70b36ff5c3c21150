package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/models"
)

var issued = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func sampleRecords() []models.DemandRecord {
	return []models.DemandRecord{
		{ID: "1", Region: "Região Norte", Comarca: "Sobral", Category: "Escritório", MaterialName: `Papel "A4" 75g`, Unit: "UN", PredictedDemand: 40, RequestedQty: 12, ApprovedQty: 10, Status: models.StatusConfirmed},
		{ID: "2", Region: "Região Norte", Comarca: "Crato", Category: "Limpeza", MaterialName: "Detergente, 500ml", Unit: "UN", PredictedDemand: 12.5, RequestedQty: 3, Status: models.StatusConfirmed},
		{ID: "3", Region: "Região Metropolitana", Comarca: "Fortaleza", Category: "Copa", MaterialName: "Café", Unit: "UN", PredictedDemand: 7},
	}
}

func parseCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(body, utf8BOM), "missing BOM")
	r := csv.NewReader(bytes.NewReader(body[len(utf8BOM):]))
	lines, err := r.ReadAll()
	require.NoError(t, err)
	return lines
}

func parseXLS(t *testing.T, body []byte) [][]string {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(body))
	require.NoError(t, err)

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, textOf(c))
				}
			}
			rows = append(rows, row)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return rows
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(sampleRecords(), Options{Mode: demand.ModeAdmin, Period: demand.PeriodAnnual, Labels: demand.EnglishLabels})
	require.Len(t, rows, 3)
	assert.Equal(t, 80.0, rows[0].Prediction)
	assert.Equal(t, "validated", rows[0].StatusText)
	assert.Equal(t, 25.0, rows[1].Prediction)
	assert.Equal(t, "awaiting", rows[1].StatusText)
	assert.Equal(t, "pending", rows[2].StatusText)

	input := BuildRows(sampleRecords(), Options{Mode: demand.ModeInput, Period: demand.PeriodSemiannual, Labels: demand.EnglishLabels})
	assert.Equal(t, 40.0, input[0].Prediction)
	assert.Equal(t, "filled", input[0].StatusText)
}

func TestEncodeCSV(t *testing.T) {
	rows := BuildRows(sampleRecords(), Options{Mode: demand.ModeInput, Period: demand.PeriodSemiannual, Labels: demand.PortugueseLabels})
	body := EncodeCSV(rows, LocalePT)

	text := string(body[len(utf8BOM):])
	firstLine := strings.SplitN(text, "\n", 2)[0]
	assert.Equal(t, "Região,Comarca,Categoria,Material,Previsão,Qtd. Solicitada,Qtd. Atendida,Status", firstLine)
	assert.Contains(t, text, `"Região Norte","Sobral","Escritório","Papel ""A4"" 75g",40,12,10,"Preenchido"`)

	lines := parseCSV(t, body)
	require.Len(t, lines, 4)
	assert.Equal(t, "Detergente, 500ml", lines[2][3])
	assert.Equal(t, "12.5", lines[2][4])
}

func TestExport_CSVAndXLSAgree(t *testing.T) {
	for _, mode := range []demand.Mode{demand.ModeInput, demand.ModeAdmin} {
		for _, period := range []demand.Period{demand.PeriodSemiannual, demand.PeriodAnnual} {
			ex := NewExporter(LocalePT)
			req := Request{Records: sampleRecords(), Mode: mode, Period: period, IssuedAt: issued}

			req.Format = FormatCSV
			csvPayload, err := ex.Export(context.Background(), req)
			require.NoError(t, err)
			req.Format = FormatXLS
			xlsPayload, err := ex.Export(context.Background(), req)
			require.NoError(t, err)

			fromCSV := parseCSV(t, csvPayload.Body)
			fromXLS := parseXLS(t, xlsPayload.Body)
			assert.Equal(t, fromCSV, fromXLS, "mode=%s period=%s", mode, period)
		}
	}
}

func TestEncodeXLS_StyledHeader(t *testing.T) {
	body := string(EncodeXLS(nil, LocaleEN))
	assert.Contains(t, body, "background-color:#f0f0f0")
	assert.Contains(t, body, "<th style=")
	assert.Contains(t, body, ">Requested</th>")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Relatorio_Geral_2026-10-18.csv", Filename(LocalePT, "", issued, FormatCSV))
	assert.Equal(t, "Relatorio_Sobral_2026-10-18.pdf", Filename(LocalePT, "Sobral", issued, FormatPDF))
	assert.Equal(t, "Report_Região_Norte_2026-10-18.jpg", Filename(LocaleEN, "Região Norte", issued, FormatJPEG))
	assert.Equal(t, "Report_General_2026-10-18.xls", Filename(LocaleEN, "  ", issued, FormatXLS))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLocaleFor(t *testing.T) {
	assert.Equal(t, "en", LocaleFor("en-US").Tag)
	assert.Equal(t, "pt-BR", LocaleFor("").Tag)
	assert.Equal(t, "pt-BR", LocaleFor("pt-BR").Tag)
}

func TestSurface_PrepareForCapture(t *testing.T) {
	rows := BuildRows(sampleRecords(), Options{Mode: demand.ModeInput, Period: demand.PeriodSemiannual, Labels: demand.PortugueseLabels})
	s := NewSurface(rows, LocalePT, demand.ModeInput)
	require.True(t, s.Header.Interactive)
	assert.NotEmpty(t, s.Controls)
	assert.Equal(t, CellInput, s.Rows[0][5].Kind)
	assert.Equal(t, CellPill, s.Rows[0][7].Kind)

	s.PrepareForCapture(LocalePT, "", issued)
	assert.True(t, s.Prepared)
	assert.Equal(t, CaptureWidth, s.Width)
	assert.Empty(t, s.Controls)
	assert.Empty(t, s.Menus)
	assert.False(t, s.Header.Interactive)
	assert.Equal(t, "Relatório de Demanda: Geral", s.Header.Title)
	assert.Equal(t, "Emitido em 18/10/2026 09:30", s.Header.Subtitle)

	for _, line := range s.Rows {
		for _, c := range line {
			assert.NotEqual(t, CellInput, c.Kind)
			assert.NotEqual(t, CellPill, c.Kind)
		}
	}
	assert.Equal(t, "12", s.Rows[0][5].Text)
	assert.Equal(t, ColorPositive, s.Rows[0][5].Color)
	assert.Equal(t, "0", s.Rows[2][5].Text)
	assert.Equal(t, ColorMuted, s.Rows[2][5].Color)
	assert.True(t, s.Rows[0][7].Bold)
	assert.Equal(t, "Preenchido", s.Rows[0][7].Text)
}

func TestSurface_AdminEditsApproved(t *testing.T) {
	rows := BuildRows(sampleRecords(), Options{Mode: demand.ModeAdmin, Labels: demand.EnglishLabels})
	s := NewSurface(rows, LocaleEN, demand.ModeAdmin)
	assert.Equal(t, CellText, s.Rows[0][5].Kind)
	assert.Equal(t, CellInput, s.Rows[0][6].Kind)

	s.PrepareForCapture(LocaleEN, "Sobral", issued)
	assert.Equal(t, "Demand Report: Sobral", s.Header.Title)
	assert.Equal(t, ColorPositive, s.Rows[0][6].Color)
	assert.Equal(t, ColorMuted, s.Rows[1][6].Color)
}

func TestExport_Raster(t *testing.T) {
	ex := NewExporter(LocalePT)
	req := Request{Records: sampleRecords(), Mode: demand.ModeInput, Period: demand.PeriodSemiannual, Scope: "Sobral", IssuedAt: issued}

	req.Format = FormatJPEG
	jpg, err := ex.Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", jpg.ContentType)
	assert.Equal(t, "Relatorio_Sobral_2026-10-18.jpg", jpg.Filename)
	img, format, err := image.Decode(bytes.NewReader(jpg.Body))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, CaptureWidth, img.Bounds().Dx())

	req.Format = FormatPDF
	pdf, err := ex.Export(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Body, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", pdf.ContentType)
}

func TestExport_CaptureFailure(t *testing.T) {
	calls := 0
	ex := &Exporter{Locale: LocaleEN, Rasterizer: RasterizerFunc(func(context.Context, *Surface) (image.Image, error) {
		calls++
		return nil, errors.New("canvas tainted")
	})}

	p, err := ex.Export(context.Background(), Request{Records: sampleRecords(), Format: FormatPDF, IssuedAt: issued})
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.Contains(t, err.Error(), "canvas tainted")
	assert.Equal(t, 1, calls)
}

func TestExport_RasterRowLimit(t *testing.T) {
	ex := &Exporter{Locale: LocaleEN, Rasterizer: &TableRasterizer{MaxRows: 2}}
	req := Request{Records: sampleRecords(), Format: FormatJPEG, IssuedAt: issued}

	p, err := ex.Export(context.Background(), req)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.Contains(t, err.Error(), "3 rows exceed the 2 row image limit")

	req.Records = sampleRecords()[:2]
	p, err = ex.Export(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", p.ContentType)

	many := make([]models.DemandRecord, DefaultMaxRasterRows+1)
	for i := range many {
		many[i] = sampleRecords()[0]
	}
	_, err = NewExporter(LocaleEN).Export(context.Background(), Request{Records: many, Format: FormatPDF, IssuedAt: issued})
	assert.ErrorIs(t, err, ErrCaptureFailed)
}

func TestExport_EmptyBitmap(t *testing.T) {
	ex := &Exporter{Locale: LocaleEN, Rasterizer: RasterizerFunc(func(context.Context, *Surface) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	})}
	_, err := ex.Export(context.Background(), Request{Format: FormatJPEG, IssuedAt: issued})
	assert.ErrorIs(t, err, ErrCaptureFailed)
}

func TestCapture_SurfaceUnavailable(t *testing.T) {
	ex := NewExporter(LocaleEN)
	body, err := ex.Capture(context.Background(), nil, Request{Format: FormatJPEG, IssuedAt: issued})
	assert.Nil(t, body)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)

	ex.Rasterizer = nil
	_, err = ex.Export(context.Background(), Request{Format: FormatPDF, IssuedAt: issued})
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := NewExporter(LocaleEN).Export(context.Background(), Request{Format: "docx"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestClip(t *testing.T) {
	r := NewTableRasterizer()
	assert.Equal(t, "abc", clip(r.Face, "abc", 100))
	short := clip(r.Face, strings.Repeat("x", 50), 70)
	assert.True(t, strings.HasSuffix(short, "..."))
	assert.LessOrEqual(t, len(short), 10)
}
