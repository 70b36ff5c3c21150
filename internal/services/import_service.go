package services

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/demandhub/backend/internal/models"
)

// MaxImportSize bounds the uploaded import file.
const MaxImportSize = 10 << 20

// ImportService reads uploaded spreadsheets. It only reports how many data
// lines a file carries; rows are not merged into the store.
type ImportService struct {
	audit *AuditService
}

func NewImportService(audit *AuditService) *ImportService {
	return &ImportService{audit: audit}
}

// Count returns the number of lines after the header. One trailing line
// break does not start a new line. A file without a second line reports
// zero and is not audited.
func (s *ImportService) Count(ctx context.Context, user string, r io.Reader) (int, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	if len(data) > MaxImportSize {
		return 0, fmt.Errorf("import file exceeds %d bytes", MaxImportSize)
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	data = bytes.TrimSuffix(data, []byte("\r"))
	lines := bytes.Count(data, []byte("\n"))
	if lines == 0 {
		return 0, nil
	}
	if s.audit != nil {
		s.audit.Record(ctx, user, models.ActionImport, "Planilha importada manualmente")
	}
	return lines, nil
}
