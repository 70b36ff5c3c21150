package demand

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/demandhub/backend/internal/models"
)

// SeedSize is the number of records generated for an empty store.
const SeedSize = 60

var seedCategories = []string{"Escritório", "Limpeza", "Informática", "Copa", "Manutenção"}

var seedMaterials = map[string][]string{
	"Escritório":  {"Papel A4 75g", "Caneta Esferográfica Azul", "Grampos 26/6", "Cola Bastão", "Bloco de Notas Adesivo"},
	"Limpeza":     {"Detergente Líquido 500ml", "Desinfetante Floral 2L", "Papel Higiênico FD", "Saco de Lixo 100L", "Álcool 70%"},
	"Informática": {"Mouse Óptico USB", "Teclado ABNT2", "Cabo HDMI 2m", "Cartucho Preto HP", "Pendrive 32GB"},
	"Copa":        {"Café em Pó 500g", "Açúcar Cristal 1kg", "Copo Descartável 200ml", "Guardanapo de Papel", "Chá Mate"},
	"Manutenção":  {"Lâmpada LED 9W", "Fita Isolante", "Parafuso M4", "Bucha 8mm", "Tinta Látex Branca 18L"},
}

var seedComarcas = []string{"Aquiraz", "Fortaleza", "Sobral", "Eusébio", "Caucaia", "Juazeiro", "Crato", "Maracanaú"}

var seedRegions = []string{"Região Metropolitana", "Região Norte"}

// Seed builds the synthetic dataset used when no snapshot exists: 60
// pending records over 8 comarcas split between 2 regions. rng drives the
// historical and predicted figures; a nil rng uses a random source.
func Seed(rng *rand.Rand, now time.Time) []models.DemandRecord {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	stamp := now.UTC().Format(time.RFC3339Nano)

	out := make([]models.DemandRecord, SeedSize)
	for i := range out {
		category := seedCategories[i%len(seedCategories)]
		items := seedMaterials[category]
		out[i] = models.DemandRecord{
			ID:               uuid.NewString(),
			Region:           seedRegions[i%len(seedRegions)],
			Comarca:          seedComarcas[i%len(seedComarcas)],
			Category:         category,
			MaterialName:     items[i%len(items)],
			Unit:             "UN",
			HistoricalDemand: float64(rng.IntN(100) + 10),
			PredictedDemand:  float64(rng.IntN(120) + 10),
			Status:           models.StatusPending,
			LastUpdated:      stamp,
		}
	}
	return out
}
