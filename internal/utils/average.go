package utils

import "math"

// RoundAverage divides total by count and rounds half up, so 61.5 -> 62.
// Report cards and broadsheets must show the same figure for the same scores.
func RoundAverage(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}
