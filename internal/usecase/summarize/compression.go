package summarize

import "math"

// CompressionPercent returns the relative reduction in word count between the
// original document and its summary, as a percentage rounded to the nearest
// integer. The second result is false when original is zero, where the ratio
// is undefined.
//
// A summary longer than its original yields a negative percentage.
func CompressionPercent(original, summary int) (int, bool) {
	if original <= 0 {
		return 0, false
	}
	ratio := 1 - float64(summary)/float64(original)
	return int(math.Round(ratio * 100)), true
}
