package count

import (
	"math"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/streamprobe/streamprobe"
)

func TestHyperLogLogRedisMatchesMem(t *testing.T) {
	initMockRedis()
	mem, _ := NewHyperLogLog(7)
	rds, err := NewRedisHyperLogLog(7)
	if err != nil {
		t.Fatalf("error creating redis hyperloglog: %v", err)
	}
	for i := 0; i < 500; i++ {
		item := "item-" + strconv.Itoa(i)
		mem.Add(item)
		if err := rds.Add(item); err != nil {
			t.Fatalf("error adding to redis hyperloglog: %v", err)
		}
	}
	memCount := mem.Count()
	rdsCount, err := rds.Count()
	if err != nil {
		t.Fatalf("error counting redis hyperloglog: %v", err)
	}
	// the harmonic mean crosses Redis as a 14-digit decimal string, so
	// the backends may differ in the last float bits
	if math.Abs(memCount-rdsCount) > 1e-6*memCount {
		t.Errorf("backends diverge on the same input: mem %v, redis %v", memCount, rdsCount)
	}
}

func TestHyperLogLogRedisPrecisionRange(t *testing.T) {
	initMockRedis()
	if _, err := NewRedisHyperLogLog(3); err == nil {
		t.Error("precision 3 should error out")
	}
	if _, err := NewRedisHyperLogLog(19); err == nil {
		t.Error("precision 19 should error out")
	}
}

func TestHyperLogLogRedisEmpty(t *testing.T) {
	initMockRedis()
	h, _ := NewRedisHyperLogLog(7)
	estimate, err := h.Count()
	if err != nil {
		t.Fatalf("error counting: %v", err)
	}
	if estimate > 1e-9 {
		t.Errorf("fresh estimator should report near zero, got %v", estimate)
	}
}

func TestHyperLogLogRedisMerge(t *testing.T) {
	initMockRedis()
	f, _ := NewRedisHyperLogLog(4)
	g, _ := NewRedisHyperLogLog(4)
	h, _ := NewRedisHyperLogLog(4)
	i, _ := NewRedisHyperLogLog(4)

	f.Add("foo")
	f.Add("bar")

	g.Add("abc")
	g.Add("xyz")

	h.Merge(g)
	h.Merge(f)

	i.Merge(f)
	i.Merge(g)

	ok, err := h.Equals(i)
	if err != nil {
		t.Fatalf("error comparing: %v", err)
	}
	if !ok {
		t.Error("merge order shouldn't matter, h and i should be equal")
	}
}

func TestHyperLogLogRedisEquals(t *testing.T) {
	initMockRedis()
	f, _ := NewRedisHyperLogLog(5)
	g, _ := NewRedisHyperLogLog(4)
	h, _ := NewRedisHyperLogLog(4)

	h.Add("john")
	h.Add("jane")

	g.Add("john")
	g.Add("jane")

	ok, _ := f.Equals(g)
	if ok {
		t.Error("different precisions shouldn't be equal")
	}

	ok, err := h.Equals(g)
	if err != nil {
		t.Fatalf("error comparing: %v", err)
	}
	if !ok {
		t.Error("h and g should be equal")
	}

	g.Add("alice")
	ok, _ = h.Equals(g)
	if ok {
		t.Error("h and g shouldn't be equal")
	}
}

func initMockRedis() {
	mr, _ := miniredis.Run()
	redisUri := "redis://" + mr.Addr()
	connOptions, _ := streamprobe.ParseRedisURI(redisUri)
	streamprobe.MakeRedisClient(*connOptions)
}
