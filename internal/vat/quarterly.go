package vat

import (
	"fmt"
	"time"
)

// StandardRate is the statutory standard VAT rate.
const StandardRate = 21.0

// Report line identifiers of the quarterly return form.
const (
	LineOutputStandardBase = "line_01_base"
	LineOutputStandardVAT  = "line_01_vat"
	LineOutputReducedBase  = "line_02_base"
	LineOutputReducedVAT   = "line_02_vat"
	LineInputBase          = "line_40_base"
	LineInputVAT           = "line_40_vat"
	LineNetVAT             = "line_64"
)

// QuarterlyReturn projects a period summary onto the fixed lines of the
// statutory quarterly VAT return.
type QuarterlyReturn struct {
	Year    int
	Quarter int
	Lines   map[string]float64
	NetVAT  float64
	Status  string
	DueDate time.Time
}

// BuildQuarterlyReturn maps aggregate totals onto report lines. Output
// amounts at the standard rate fill line 01, all other output rates fill
// line 02, input amounts fill line 40 and the net position fills line 64.
func BuildQuarterlyReturn(summary *Summary, year, quarter int) (*QuarterlyReturn, error) {
	if summary == nil {
		return nil, fmt.Errorf("vat: nil summary")
	}
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("vat: invalid quarter %d", quarter)
	}

	lines := map[string]float64{
		LineOutputStandardBase: 0,
		LineOutputStandardVAT:  0,
		LineOutputReducedBase:  0,
		LineOutputReducedVAT:   0,
		LineInputBase:          0,
		LineInputVAT:           0,
	}
	for rate, bucket := range summary.OutputBuckets {
		if rate == StandardRate {
			lines[LineOutputStandardBase] += bucket.BaseAmount
			lines[LineOutputStandardVAT] += bucket.VATAmount
		} else {
			lines[LineOutputReducedBase] += bucket.BaseAmount
			lines[LineOutputReducedVAT] += bucket.VATAmount
		}
	}
	for _, bucket := range summary.InputBuckets {
		lines[LineInputBase] += bucket.BaseAmount
		lines[LineInputVAT] += bucket.VATAmount
	}
	lines[LineNetVAT] = summary.NetVATTotal

	return &QuarterlyReturn{
		Year:    year,
		Quarter: quarter,
		Lines:   lines,
		NetVAT:  summary.NetVATTotal,
		Status:  summary.Status,
		DueDate: QuarterDueDate(year, quarter),
	}, nil
}

// QuarterDueDate returns the filing due date of a quarter: the 25th of the
// month following the quarter (January of the next year for Q4).
func QuarterDueDate(year, quarter int) time.Time {
	switch quarter {
	case 1:
		return time.Date(year, time.April, 25, 0, 0, 0, 0, time.UTC)
	case 2:
		return time.Date(year, time.July, 25, 0, 0, 0, 0, time.UTC)
	case 3:
		return time.Date(year, time.October, 25, 0, 0, 0, 0, time.UTC)
	case 4:
		return time.Date(year+1, time.January, 25, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}
