// SPDX-License-Identifier: EPL-2.0

package audibites

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as M:SS, truncating fractions.
// Negative and non-finite values render as 0:00.
func FormatTime(seconds float64) string {
	mins, secs := split(seconds)
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// FormatTimePrecise renders seconds as M:SS.d with one truncated decimal.
func FormatTimePrecise(seconds float64) string {
	mins, secs := split(seconds)

	tenths := 0
	if valid(seconds) {
		tenths = int(math.Mod(math.Floor(seconds*10+1e-9), 10))
	}

	return fmt.Sprintf("%d:%02d.%d", mins, secs, tenths)
}

func split(seconds float64) (int, int) {
	if !valid(seconds) {
		return 0, 0
	}

	return int(seconds / 60), int(math.Mod(seconds, 60))
}

func valid(seconds float64) bool {
	return seconds >= 0 && !math.IsInf(seconds, 0)
}
