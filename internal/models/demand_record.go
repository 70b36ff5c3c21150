package models

// RecordStatus is the persisted progress flag of a demand record. It caches
// requestedQty > 0 and is never derived from approvedQty.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusConfirmed RecordStatus = "confirmed"
)

// Editable numeric fields of a DemandRecord, named as they travel over the wire.
const (
	FieldHistoricalDemand = "historicalDemand"
	FieldPredictedDemand  = "predictedDemand"
	FieldRequestedQty     = "requestedQty"
	FieldApprovedQty      = "approvedQty"
)

// DemandRecord is one material demand line for a comarca. JSON tags keep the
// camelCase layout of the snapshot and backup files.
type DemandRecord struct {
	ID               string       `json:"id"`
	Region           string       `json:"region"`
	Comarca          string       `json:"comarca"`
	Category         string       `json:"category"`
	MaterialName     string       `json:"materialName"`
	Unit             string       `json:"unit"`
	HistoricalDemand float64      `json:"historicalDemand"`
	PredictedDemand  float64      `json:"predictedDemand"` // semiannual base
	RequestedQty     float64      `json:"requestedQty"`
	ApprovedQty      float64      `json:"approvedQty"`
	Status           RecordStatus `json:"status"`
	LastUpdated      string       `json:"lastUpdated"`
}

// IsConfirmed reports the persisted predicate used by rollups.
func (r DemandRecord) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// StatusFor returns the cached status value matching a requested quantity.
func StatusFor(requested float64) RecordStatus {
	if requested > 0 {
		return StatusConfirmed
	}
	return StatusPending
}
