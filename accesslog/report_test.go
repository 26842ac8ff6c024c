package accesslog

import (
	"strings"
	"testing"
	"time"
)

func TestFormatComparison(t *testing.T) {
	table := FormatComparison(100, 99.8, 1500*time.Millisecond, 40*time.Millisecond)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("table should have a header and two rows, got %d lines", len(lines))
	}

	if !strings.Contains(lines[0], "exact counting") || !strings.Contains(lines[0], "estimator") {
		t.Errorf("header row missing column titles: %q", lines[0])
	}
	if !strings.Contains(lines[1], "unique element count") || !strings.Contains(lines[1], "100.0") || !strings.Contains(lines[1], "99.8") {
		t.Errorf("count row malformed: %q", lines[1])
	}
	if !strings.Contains(lines[2], "elapsed time (seconds)") || !strings.Contains(lines[2], "1.5000") || !strings.Contains(lines[2], "0.0400") {
		t.Errorf("time row malformed: %q", lines[2])
	}

	// columns are padded to the longest cell, so all lines line up
	if len(lines[0]) != len(lines[1]) || len(lines[1]) != len(lines[2]) {
		t.Errorf("rows should be equal width: %d, %d, %d", len(lines[0]), len(lines[1]), len(lines[2]))
	}
}
