package demand

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/demandhub/backend/internal/models"
)

// AllCategories is the sentinel that disables the category predicate.
const AllCategories = "all"

// Query narrows a record listing. Comarca and Region are hard scopes; Text
// and Category are applied to whatever the scope leaves.
type Query struct {
	Text     string `form:"q"`
	Category string `form:"category"`
	Comarca  string `form:"comarca"`
	Region   string `form:"region"`
}

// ScopeLabel names the active hierarchical scope, or "" when none is set.
func (q Query) ScopeLabel() string {
	if q.Comarca != "" {
		return q.Comarca
	}
	return q.Region
}

func isAllCategories(c string) bool {
	c = strings.TrimSpace(c)
	return c == "" || strings.EqualFold(c, AllCategories) || strings.EqualFold(c, "todos")
}

// folder compares text ignoring case and diacritics. Not safe for
// concurrent use; build one per call.
type folder struct {
	caser cases.Caser
	strip transform.Transformer
}

func newFolder() *folder {
	return &folder{
		caser: cases.Fold(),
		strip: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

func (f *folder) String(s string) string {
	stripped, _, err := transform.String(f.strip, s)
	if err != nil {
		stripped = s
	}
	return f.caser.String(stripped)
}

// Filter returns the records matching q, preserving input order. Text
// matching ignores case and accents.
func Filter(records []models.DemandRecord, q Query) []models.DemandRecord {
	fold := newFolder()
	needle := fold.String(strings.TrimSpace(q.Text))
	anyCategory := isAllCategories(q.Category)

	out := make([]models.DemandRecord, 0, len(records))
	for _, rec := range records {
		if q.Comarca != "" && rec.Comarca != q.Comarca {
			continue
		}
		if q.Region != "" && rec.Region != q.Region {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(rec.MaterialName), needle) &&
			!strings.Contains(fold.String(rec.Comarca), needle) {
			continue
		}
		if !anyCategory && rec.Category != q.Category {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ProgressStats is the filled share of a (filtered) listing.
type ProgressStats struct {
	Filled  int `json:"filled"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Progress counts confirmed records of the set it is given.
func Progress(records []models.DemandRecord) ProgressStats {
	filled := 0
	for _, rec := range records {
		if rec.IsConfirmed() {
			filled++
		}
	}
	return ProgressStats{
		Filled:  filled,
		Total:   len(records),
		Percent: CompletionPercent(len(records), len(records)-filled),
	}
}

// Categories lists distinct categories in first-seen order.
func Categories(records []models.DemandRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range records {
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}

// Regions lists distinct regions in first-seen order.
func Regions(records []models.DemandRecord) []string {
	groups := Aggregate(records, ByRegion)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}
