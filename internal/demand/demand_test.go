package demand

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demandhub/backend/internal/models"
)

func rec(region, comarca, category, material string, requested, approved float64) models.DemandRecord {
	return models.DemandRecord{
		ID:           material + "@" + comarca,
		Region:       region,
		Comarca:      comarca,
		Category:     category,
		MaterialName: material,
		Unit:         "UN",
		RequestedQty: requested,
		ApprovedQty:  approved,
		Status:       models.StatusFor(requested),
	}
}

func fixture() []models.DemandRecord {
	return []models.DemandRecord{
		rec("North", "Sobral", "Office", "Paper A4", 10, 8),
		rec("Metro", "Fortaleza", "Cleaning", "Detergent", 0, 0),
		rec("North", "Crato", "Office", "Blue Pen", 5, 0),
		rec("Metro", "Aquiraz", "IT", "USB Mouse", 0, 0),
		rec("Metro", "Fortaleza", "Office", "Stapler", 4, 4),
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 3.5, 3.5},
		{"int", 7, 7},
		{"negative", -4.0, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"numeric string", " 12.25 ", 12.25},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"negative string", "-3", 0},
		{"json number", json.Number("42"), 42},
		{"true", true, 1},
		{"false", false, 0},
		{"object", map[string]any{"a": 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.in))
		})
	}
}

func TestDeriveStatus_InputMode(t *testing.T) {
	assert.Equal(t, CategoryPending, DeriveStatus(rec("r", "c", "k", "m", 0, 9), ModeInput).Category)
	assert.Equal(t, CategoryFilled, DeriveStatus(rec("r", "c", "k", "m", 2, 0), ModeInput).Category)
	assert.Equal(t, "filled", DeriveStatus(rec("r", "c", "k", "m", 2, 0), ModeInput).Label)
}

func TestDeriveStatus_AdminPrecedence(t *testing.T) {
	st := DeriveStatus(rec("r", "c", "k", "m", 5, 5), ModeAdmin)
	assert.Equal(t, CategoryValidated, st.Category)
	assert.Equal(t, "validated", st.Label)

	// approved without a request still validates
	assert.Equal(t, CategoryValidated, DeriveCategory(rec("r", "c", "k", "m", 0, 1), ModeAdmin))
}

func TestDeriveStatus_AdminProgression(t *testing.T) {
	r := rec("r", "c", "k", "m", 0, 0)
	assert.Equal(t, "pending", DeriveStatus(r, ModeAdmin).Label)

	r.RequestedQty = 3
	assert.Equal(t, "awaiting", DeriveStatus(r, ModeAdmin).Label)

	r.ApprovedQty = 3
	assert.Equal(t, "validated", DeriveStatus(r, ModeAdmin).Label)
}

func TestPortugueseLabels(t *testing.T) {
	r := rec("r", "c", "k", "m", 1, 0)
	assert.Equal(t, "Aguardando", PortugueseLabels.Derive(r, ModeAdmin).Label)
	assert.Equal(t, "Preenchido", PortugueseLabels.Derive(r, ModeInput).Label)
	assert.Equal(t, CategoryFilled, PortugueseLabels.Derive(r, ModeInput).Category)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInput, m)

	m, err = ParseMode("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, ModeAdmin, m)

	_, err = ParseMode("root")
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	for _, x := range []float64{0, 1, 17, 42.5} {
		assert.Equal(t, x, Scale(x, PeriodSemiannual))
		assert.Equal(t, 2*Scale(x, PeriodSemiannual), Scale(x, PeriodAnnual))
		assert.Equal(t, 2*x, Scale(x, PeriodAnnual))
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("anual")
	require.NoError(t, err)
	assert.Equal(t, PeriodAnnual, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodSemiannual, p)

	_, err = ParsePeriod("monthly")
	assert.Error(t, err)
}

func TestAggregate_FirstSeenOrder(t *testing.T) {
	groups := Aggregate(fixture(), ByRegion)
	require.Len(t, groups, 2)
	assert.Equal(t, "North", groups[0].Key)
	assert.Equal(t, "Metro", groups[1].Key)

	assert.Equal(t, 2, groups[0].TotalItems)
	assert.Equal(t, 0, groups[0].PendingCount)
	assert.Equal(t, 100, groups[0].CompletionPercent)
	assert.Equal(t, []string{"Sobral", "Crato"}, groups[0].Comarcas)

	assert.Equal(t, 3, groups[1].TotalItems)
	assert.Equal(t, 2, groups[1].PendingCount)
	assert.Equal(t, 33, groups[1].CompletionPercent)
	assert.Equal(t, []string{"Fortaleza", "Aquiraz"}, groups[1].Comarcas)
	assert.Equal(t, 2, groups[1].ComarcaCount)
}

func TestAggregate_UsesPersistedStatus(t *testing.T) {
	r := rec("r", "c", "k", "m", 0, 0)
	r.ApprovedQty = 10 // admin derivation would say validated
	groups := Aggregate([]models.DemandRecord{r}, ByComarca)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].PendingCount)
	assert.Equal(t, 0, groups[0].CompletionPercent)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, ByRegion))
}

func TestComarcasInRegion(t *testing.T) {
	groups := ComarcasInRegion(fixture(), "Metro")
	require.Len(t, groups, 2)
	assert.Equal(t, "Fortaleza", groups[0].Key)
	assert.Equal(t, "Metro", groups[0].Region)
	assert.Equal(t, 50, groups[0].CompletionPercent)
	assert.Equal(t, "Aquiraz", groups[1].Key)
	assert.Equal(t, 0, groups[1].CompletionPercent)
}

func TestCompletionPercent_Bounds(t *testing.T) {
	assert.Equal(t, 0, CompletionPercent(0, 0))
	assert.Equal(t, 0, CompletionPercent(0, 5))
	assert.Equal(t, 100, CompletionPercent(4, 0))
	assert.Equal(t, 0, CompletionPercent(3, 7))
	for total := 1; total <= 12; total++ {
		for pending := 0; pending <= total; pending++ {
			p := CompletionPercent(total, pending)
			assert.GreaterOrEqual(t, p, 0)
			assert.LessOrEqual(t, p, 100)
		}
	}
}

func TestFulfillmentRate(t *testing.T) {
	assert.Equal(t, 0.0, FulfillmentRate(nil))
	assert.Equal(t, 0.0, FulfillmentRate([]models.DemandRecord{rec("r", "c", "k", "m", 0, 5)}))

	recs := fixture()
	assert.Equal(t, 19.0, TotalRequested(recs))
	assert.Equal(t, 12.0, TotalApproved(recs))
	assert.InDelta(t, 63.157, FulfillmentRate(recs), 0.001)
}

func TestDashboard(t *testing.T) {
	k := Dashboard(fixture())
	assert.Equal(t, 63.2, k.FulfillmentRate)
	assert.Equal(t, 4, k.ActiveComarcas)
	require.Len(t, k.Consumption, 3)
	assert.Equal(t, CategoryConsumption{Category: "Office", Requested: 19}, k.Consumption[0])
	assert.Equal(t, "Cleaning", k.Consumption[1].Category)
	assert.Equal(t, "IT", k.Consumption[2].Category)
}

func TestFilter_ScopeAndText(t *testing.T) {
	recs := fixture()

	scoped := Filter(recs, Query{Comarca: "Fortaleza"})
	require.Len(t, scoped, 2)
	assert.Equal(t, scoped, Filter(scoped, Query{Text: ""}))

	byText := Filter(recs, Query{Text: "PAPER"})
	require.Len(t, byText, 1)
	assert.Equal(t, "Paper A4", byText[0].MaterialName)

	byComarcaText := Filter(recs, Query{Text: "sob"})
	require.Len(t, byComarcaText, 1)
	assert.Equal(t, "Sobral", byComarcaText[0].Comarca)

	// text never escapes the scope
	assert.Empty(t, Filter(recs, Query{Comarca: "Crato", Text: "Paper"}))
}

func TestFilter_Category(t *testing.T) {
	recs := fixture()
	assert.Len(t, Filter(recs, Query{Category: AllCategories}), len(recs))
	assert.Len(t, Filter(recs, Query{Category: "Todos"}), len(recs))
	assert.Len(t, Filter(recs, Query{Category: "Office"}), 3)
	assert.Len(t, Filter(recs, Query{Category: "Office", Region: "North"}), 2)
	assert.Empty(t, Filter(recs, Query{Category: "Nope"}))
}

func TestFilter_AccentFolding(t *testing.T) {
	recs := []models.DemandRecord{rec("r", "Maracanaú", "k", "Álcool 70%", 0, 0)}
	assert.Len(t, Filter(recs, Query{Text: "álcool"}), 1)
	assert.Len(t, Filter(recs, Query{Text: "MARACANAÚ"}), 1)
	assert.Len(t, Filter(recs, Query{Text: "alcool"}), 1)
	assert.Len(t, Filter(recs, Query{Text: "maracanau"}), 1)

	recs = []models.DemandRecord{
		rec("North", "Sobral", "IT", "Mouse Óptico", 0, 0),
		rec("Metro", "Eusébio", "Office", "Papel A4", 0, 0),
	}
	got := Filter(recs, Query{Text: "optico"})
	require.Len(t, got, 1)
	assert.Equal(t, "Mouse Óptico", got[0].MaterialName)
	got = Filter(recs, Query{Text: "EUSEBIO"})
	require.Len(t, got, 1)
	assert.Equal(t, "Papel A4", got[0].MaterialName)
	assert.Empty(t, Filter(recs, Query{Text: "ótica"}))
}

func TestProgress(t *testing.T) {
	p := Progress(Filter(fixture(), Query{Region: "Metro"}))
	assert.Equal(t, ProgressStats{Filled: 1, Total: 3, Percent: 33}, p)
	assert.Equal(t, ProgressStats{}, Progress(nil))
}

func TestCategoriesAndRegions(t *testing.T) {
	assert.Equal(t, []string{"Office", "Cleaning", "IT"}, Categories(fixture()))
	assert.Equal(t, []string{"North", "Metro"}, Regions(fixture()))
}

func TestQueryScopeLabel(t *testing.T) {
	assert.Equal(t, "", Query{}.ScopeLabel())
	assert.Equal(t, "Metro", Query{Region: "Metro"}.ScopeLabel())
	assert.Equal(t, "Sobral", Query{Region: "North", Comarca: "Sobral"}.ScopeLabel())
}

func TestSeed(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	recs := Seed(rand.New(rand.NewPCG(1, 2)), now)
	require.Len(t, recs, SeedSize)

	regions := Aggregate(recs, ByRegion)
	require.Len(t, regions, 2)
	assert.Equal(t, SeedSize, regions[0].TotalItems+regions[1].TotalItems)
	assert.Len(t, Aggregate(recs, ByComarca), 8)

	ids := make(map[string]struct{})
	for _, r := range recs {
		ids[r.ID] = struct{}{}
		assert.Equal(t, models.StatusPending, r.Status)
		assert.Zero(t, r.RequestedQty)
		assert.GreaterOrEqual(t, r.HistoricalDemand, 10.0)
		assert.Less(t, r.HistoricalDemand, 110.0)
		assert.GreaterOrEqual(t, r.PredictedDemand, 10.0)
		assert.Less(t, r.PredictedDemand, 130.0)
	}
	assert.Len(t, ids, SeedSize)
}

func TestHistory_Quarterly(t *testing.T) {
	recs := []models.DemandRecord{
		rec("r", "Sobral", "Office", "a", 100, 50),
		rec("r", "Sobral", "IT", "b", 0, 0),
		rec("r", "Crato", "Office", "c", 999, 999),
	}
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	h := History(recs, "Sobral", WindowQuarterly, now)

	require.Len(t, h.Points, 4)
	assert.Equal(t, HistoryPoint{Name: "2º Trim 26", Requested: 100, Approved: 50}, h.Points[3])
	assert.Equal(t, "3º Trim 25", h.Points[0].Name)
	assert.Equal(t, 85.0, h.Points[0].Requested)
	assert.Equal(t, 40.0, h.Points[0].Approved)
	assert.Equal(t, 385.0, h.TotalRequested)
	assert.Equal(t, 182.0, h.TotalApproved)
	assert.Equal(t, 203.0, h.Deviation)
	assert.Equal(t, 1, h.ActiveCategories)
	assert.Equal(t, 46.0, h.AveragePerCycle)
}

func TestHistory_AnnualAndEmpty(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := History(nil, "Nowhere", WindowAnnual, now)
	require.Len(t, h.Points, 3)
	assert.Equal(t, []string{"2024", "2025", "2026"}, []string{h.Points[0].Name, h.Points[1].Name, h.Points[2].Name})
	assert.Zero(t, h.Efficiency)
	assert.Zero(t, h.TotalRequested)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("semestral")
	require.NoError(t, err)
	assert.Equal(t, WindowSemiannual, w)
	_, err = ParseWindow("weekly")
	assert.Error(t, err)
}
