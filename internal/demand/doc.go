// Package demand holds the pure rules of the demand tracker: status
// derivation per view mode, rollups over arbitrary record subsets, forecast
// period scaling and the query filter used by listings and exports.
//
// Nothing in this package touches storage or clocks it was not handed, so
// every function can be exercised directly with literal records.
package demand
