package vat

import (
	"fmt"
	"math"
	"sort"
)

// NetVATMaterialityThreshold is the absolute net VAT above which a period is
// flagged for manual review.
const NetVATMaterialityThreshold = 1000000.0

// statutoryRates is the fixed set of legal VAT rates.
var statutoryRates = map[float64]bool{0: true, 12: true, 21: true}

// CheckWarning is a non-fatal finding on an aggregated summary.
type CheckWarning struct {
	Code    string
	Message string
}

// Check flags non-statutory rates and a net VAT total above the materiality
// threshold. Warnings never fail the pipeline.
func Check(summary *Summary) []CheckWarning {
	if summary == nil {
		return nil
	}
	var warnings []CheckWarning

	seen := make(map[float64]bool)
	for rate := range summary.OutputBuckets {
		seen[rate] = true
	}
	for rate := range summary.InputBuckets {
		seen[rate] = true
	}
	var rates []float64
	for rate := range seen {
		if !statutoryRates[rate] {
			rates = append(rates, rate)
		}
	}
	sort.Float64s(rates)
	for _, rate := range rates {
		warnings = append(warnings, CheckWarning{
			Code:    "nonstandard_rate",
			Message: fmt.Sprintf("Neobvyklá sazba DPH %g %%", rate),
		})
	}

	if math.Abs(summary.NetVATTotal) > NetVATMaterialityThreshold {
		warnings = append(warnings, CheckWarning{
			Code:    "net_vat_materiality",
			Message: fmt.Sprintf("Celková DPH %.2f přesahuje hranici významnosti %.0f", summary.NetVATTotal, NetVATMaterialityThreshold),
		})
	}
	return warnings
}
