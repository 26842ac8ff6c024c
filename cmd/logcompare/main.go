// logcompare counts the distinct client addresses in a JSON-lines access
// log twice, once exactly and once with the cardinality estimator, and
// prints a comparison of the results and the elapsed times.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/streamprobe/streamprobe"
	"github.com/streamprobe/streamprobe/accesslog"
	"github.com/streamprobe/streamprobe/count"
)

var (
	precision = flag.Uint("p", 14, "estimator precision in [4, 18]")
	redisURI  = flag.String("redis", "", "redis URI; when set the estimator registers are kept in redis")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: logcompare [flags] <access-log-path>")
		os.Exit(2)
	}
	path := flag.Arg(0)
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "file not found: %s\n", path)
		os.Exit(1)
	}

	exact, exactTime, err := accesslog.ExactDistinct(path)
	if err != nil {
		fatal(err)
	}

	var estimate float64
	var estimateTime time.Duration
	if *redisURI != "" {
		estimate, estimateTime, err = estimateWithRedis(path)
	} else {
		estimate, estimateTime, err = accesslog.EstimateDistinct(path, uint8(*precision))
	}
	if err != nil {
		fatal(err)
	}

	fmt.Print(accesslog.FormatComparison(float64(exact), estimate, exactTime, estimateTime))
}

// estimateWithRedis runs the estimator pass against Redis backed
// registers; the scan itself is identical to the in-memory pass.
func estimateWithRedis(path string) (float64, time.Duration, error) {
	options, err := streamprobe.ParseRedisURI(*redisURI)
	if err != nil {
		return 0, 0, err
	}
	streamprobe.MakeRedisClient(*options)

	estimator, err := count.NewRedisHyperLogLog(uint8(*precision))
	if err != nil {
		return 0, 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("streamprobe: error opening log file: %v", err)
	}
	defer file.Close()

	start := time.Now()
	err = accesslog.ScanClientIPs(file, func(ip string) error {
		return estimator.Add(ip)
	})
	if err != nil {
		return 0, 0, err
	}
	estimate, err := estimator.Count()
	if err != nil {
		return 0, 0, err
	}
	return estimate, time.Since(start), nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
