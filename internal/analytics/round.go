package analytics

import "github.com/shopspring/decimal"

// averageOf returns sum/count rounded half-up to 2 decimal places, or 0 when
// count is 0. The division is done in decimal so 2.675 rounds to 2.68.
func averageOf(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count)))
	return avg.Round(2).InexactFloat64()
}
