package archive

import (
	"math"
	"strings"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders per-day word counts as a single-line ASCII graph. The
// scale runs from zero to the largest value, so quiet days stay visibly low
// instead of being stretched to the baseline.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}

	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		idx := int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
		if idx > len(sparkChars)-1 {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
