package accesslog

import (
	"fmt"
	"strings"
	"time"
)

// FormatComparison renders the exact-vs-estimator comparison as a
// two-column table. Each column is sized to its longest cell.
func FormatComparison(exact, estimate float64, exactTime, estimateTime time.Duration) string {
	headers := [3]string{"", "exact counting", "estimator"}
	rows := [][3]string{
		{"unique element count", fmt.Sprintf("%.1f", exact), fmt.Sprintf("%.1f", estimate)},
		{"elapsed time (seconds)", fmt.Sprintf("%.4f", exactTime.Seconds()), fmt.Sprintf("%.4f", estimateTime.Seconds())},
	}

	var widths [3]int
	for col := range headers {
		widths[col] = len(headers[col])
		for _, row := range rows {
			if len(row[col]) > widths[col] {
				widths[col] = len(row[col])
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %*s  %*s\n", widths[0], headers[0], widths[1], headers[1], widths[2], headers[2])
	for _, row := range rows {
		fmt.Fprintf(&b, "%-*s  %*s  %*s\n", widths[0], row[0], widths[1], row[1], widths[2], row[2])
	}
	return b.String()
}
