package accesslog

import (
	"fmt"
	"os"
	"time"

	"github.com/streamprobe/streamprobe/count"
)

// ExactDistinct counts the distinct client addresses in the log at _path_
// exactly, holding every distinct address in a set. This is the ground
// truth the estimator is compared against; its memory grows with the
// number of distinct addresses. Returns the count and the elapsed wall
// time of the pass.
func ExactDistinct(path string) (uint64, time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("streamprobe: error opening log file: %v", err)
	}
	defer file.Close()

	start := time.Now()
	seen := make(map[string]struct{})
	err = ScanClientIPs(file, func(ip string) error {
		seen[ip] = struct{}{}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return uint64(len(seen)), time.Since(start), nil
}

// EstimateDistinct approximates the distinct client address count in the
// log at _path_ with a HyperLogLog of the given precision, in fixed
// memory. The file is opened fresh, so exact and estimated passes over the
// same source stay independent.
func EstimateDistinct(path string, precision uint8) (float64, time.Duration, error) {
	estimator, err := count.NewHyperLogLog(precision)
	if err != nil {
		return 0, 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("streamprobe: error opening log file: %v", err)
	}
	defer file.Close()

	start := time.Now()
	err = ScanClientIPs(file, func(ip string) error {
		estimator.Add(ip)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return estimator.Count(), time.Since(start), nil
}
