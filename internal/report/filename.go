package report

import (
	"fmt"
	"time"

	"github.com/demandhub/backend/internal/util"
)

// Filename builds <kind>_<scope|fallback>_<YYYY-MM-DD>.<ext>.
func Filename(loc Locale, scope string, issuedAt time.Time, f Format) string {
	label := util.SanitizeFilenamePart(scope)
	if label == "" {
		label = loc.Fallback
	}
	return fmt.Sprintf("%s_%s_%s.%s", loc.Kind, label, issuedAt.Format("2006-01-02"), f.Ext())
}
