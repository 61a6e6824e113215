package fx

import (
	"math"
	"strings"
)

var bars = []rune("▁▂▃▄▅▆▇█")

// Sparkline squeezes values into width columns of block characters. Each
// column shows the mean of its bucket.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if width > len(values) {
		width = len(values)
	}

	cols := make([]float64, width)
	for c := range cols {
		lo := c * len(values) / width
		hi := (c + 1) * len(values) / width
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		cols[c] = sum / float64(hi-lo)
	}

	lo, hi := cols[0], cols[0]
	for _, v := range cols {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range cols {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(bars)-1))
		}
		b.WriteRune(bars[i])
	}
	return b.String()
}
