package interpret

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumber turns free-form numeric text into an integer. Empty or
// unparsable input yields 0; anything else is parsed as a float and rounded
// half away from zero. Negative input passes through unclamped, so callers
// that need non-negative values clamp explicitly.
func CoerceNumber(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
