package accesslog

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTestLog(t *testing.T, numDistinct int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access.log")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("error creating test log: %v", err)
	}
	defer file.Close()

	// every address appears three times, interleaved with junk
	for round := 0; round < 3; round++ {
		for i := 0; i < numDistinct; i++ {
			fmt.Fprintf(file, "{\"remote_addr\": \"192.0.2.%d\", \"status\": 200}\n", i)
		}
		fmt.Fprintln(file, "not json at all")
		fmt.Fprintln(file, `{"remote_addr": "not-an-ip"}`)
	}
	return path
}

func TestExactDistinct(t *testing.T) {
	path := writeTestLog(t, 30)
	exact, elapsed, err := ExactDistinct(path)
	if err != nil {
		t.Fatalf("error counting: %v", err)
	}
	if exact != 30 {
		t.Errorf("exact count should be 30, got %d", exact)
	}
	if elapsed < 0 {
		t.Errorf("elapsed time should be non-negative, got %v", elapsed)
	}
}

func TestEstimateDistinct(t *testing.T) {
	path := writeTestLog(t, 30)
	estimate, _, err := EstimateDistinct(path, 14)
	if err != nil {
		t.Fatalf("error estimating: %v", err)
	}
	if math.Abs(estimate-30) > 1.5 {
		t.Errorf("estimate should be close to 30, got %v", estimate)
	}
}

func TestEstimateMatchesExact(t *testing.T) {
	path := writeTestLog(t, 200)
	exact, _, err := ExactDistinct(path)
	if err != nil {
		t.Fatalf("error counting: %v", err)
	}
	estimate, _, err := EstimateDistinct(path, 14)
	if err != nil {
		t.Fatalf("error estimating: %v", err)
	}
	relativeError := math.Abs(estimate-float64(exact)) / float64(exact)
	if relativeError > 0.05 {
		t.Errorf("relative error %v too high, exact %d, estimate %v", relativeError, exact, estimate)
	}
}

func TestEstimateDistinctBadPrecision(t *testing.T) {
	path := writeTestLog(t, 5)
	if _, _, err := EstimateDistinct(path, 3); err == nil {
		t.Error("precision 3 should error out")
	}
}

func TestMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such.log")
	if _, _, err := ExactDistinct(missing); err == nil {
		t.Error("missing file should error out")
	}
	if _, _, err := EstimateDistinct(missing, 14); err == nil {
		t.Error("missing file should error out")
	}
}
