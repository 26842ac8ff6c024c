package filters

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/streamprobe/streamprobe"
)

func TestRedisFilterBasic(t *testing.T) {
	initMockRedis()
	filter, err := NewRedisBloomFilter(1000, 3)
	if err != nil {
		t.Fatalf("error creating redis filter: %v", err)
	}
	filter.Add("password123")
	filter.Add("admin123")
	if !filter.Contains("password123") {
		t.Error("password123 should be in the filter")
	}
	if filter.Contains("letmein") {
		t.Error("letmein should not be in the filter")
	}
}

func TestRedisFilterInvalidInput(t *testing.T) {
	initMockRedis()
	filter, _ := NewRedisBloomFilter(1000, 3)
	if filter.Add("   ") {
		t.Error("whitespace-only item should be rejected")
	}
	if filter.Contains(nil) {
		t.Error("nil item should report false")
	}
}

func TestRedisFilterZeroSize(t *testing.T) {
	initMockRedis()
	if _, err := NewRedisBloomFilter(0, 3); err == nil {
		t.Error("should error out on zero size")
	}
}

func initMockRedis() {
	mr, _ := miniredis.Run()
	redisUri := "redis://" + mr.Addr()
	connOptions, _ := streamprobe.ParseRedisURI(redisUri)
	streamprobe.MakeRedisClient(*connOptions)
}
