// passwordcheck reports, for each candidate password given on the command
// line, whether it was already used, is unique, or is invalid. The filter
// can be pre-populated from a file of known passwords and can keep its
// bits either in memory or in Redis.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/streamprobe/streamprobe"
	"github.com/streamprobe/streamprobe/filters"
)

var (
	size     = flag.Uint("size", 1000, "number of bits in the filter")
	hashes   = flag.Uint("hashes", 3, "number of hash probes per item")
	seedFile = flag.String("seed-file", "", "file with one known password per line to pre-populate the filter")
	redisURI = flag.String("redis", "", "redis URI; when set the filter bits are kept in redis")
)

func main() {
	flag.Parse()
	candidates := flag.Args()
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "usage: passwordcheck [flags] password...")
		os.Exit(2)
	}

	filter, err := newFilter()
	if err != nil {
		fatal(err)
	}
	if *seedFile != "" {
		if err := seedFilter(filter, *seedFile); err != nil {
			fatal(err)
		}
	}

	items := make([]any, len(candidates))
	for i, candidate := range candidates {
		items[i] = candidate
	}
	results := filters.CheckUniqueness(filter, items)
	for _, candidate := range candidates {
		fmt.Printf("%s: %s\n", candidate, results[filters.Normalize(candidate)])
	}
}

func newFilter() (*filters.BloomFilter, error) {
	if *redisURI != "" {
		options, err := streamprobe.ParseRedisURI(*redisURI)
		if err != nil {
			return nil, err
		}
		streamprobe.MakeRedisClient(*options)
		return filters.NewRedisBloomFilter(*size, *hashes)
	}
	return filters.NewBloomFilter(*size, *hashes)
}

func seedFilter(filter *filters.BloomFilter, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("streamprobe: error opening seed file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		filter.Add(scanner.Text())
	}
	return scanner.Err()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
