package count

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/streamprobe/streamprobe"
)

// HyperLogLogRedis is the Redis backed variant of HyperLogLog. The
// registers live in a Redis list at _key_, so several processes can feed
// the same estimator. All register manipulation happens server-side in Lua
// to keep the read-modify-write of a register atomic.
type HyperLogLogRedis struct {
	abstractHyperLogLog
	key string
}

// NewRedisHyperLogLog creates an estimator with 2^precision registers
// stored under a freshly generated Redis key.
func NewRedisHyperLogLog(precision uint8) (*HyperLogLogRedis, error) {
	abstractLog, err := makeAbstractHyperLogLog(precision)
	if err != nil {
		return nil, err
	}
	h := &HyperLogLogRedis{*abstractLog, streamprobe.GenerateRandomString(16)}
	if err := h.initRegisters(); err != nil {
		return nil, err
	}
	return h, nil
}

// Key returns the Redis key holding the registers.
func (h *HyperLogLogRedis) Key() string {
	return h.key
}

// Add folds _item_ into the estimate.
func (h *HyperLogLogRedis) Add(item string) error {
	index, rank := h.registerIndexAndRank(item)
	return h.updateRegister(index, rank)
}

// Count returns the current estimate of the number of distinct items
// added. The harmonic mean and the zero-register count are computed in a
// single round trip.
func (h *HyperLogLogRedis) Count() (float64, error) {
	inverseSum, zeroRegisters, err := h.readRegisterSummary()
	if err != nil {
		return 0, err
	}
	return h.estimate(inverseSum, zeroRegisters), nil
}

// Merge folds _g_ into h by element-wise register maximum. Both estimators
// must share the same precision.
func (h *HyperLogLogRedis) Merge(g *HyperLogLogRedis) error {
	if h.precision != g.precision {
		return fmt.Errorf("streamprobe: hyperloglog precisions %d, %d don't match", h.precision, g.precision)
	}
	mergeRegistersScript := redis.NewScript(`
		local dest = KEYS[1]
		local src = KEYS[2]
		local size = tonumber(ARGV[1])
		local a = redis.call('LRANGE', dest, 0, -1)
		local b = redis.call('LRANGE', src, 0, -1)
		for i = 1, size do
			if tonumber(b[i]) > tonumber(a[i]) then
				redis.call('LSET', dest, i-1, b[i])
			end
		end
		return true
	`)
	_, err := mergeRegistersScript.Run(
		context.Background(),
		streamprobe.GetRedisClient(),
		[]string{h.key, g.key},
		h.numRegisters,
	).Bool()
	if err != nil {
		return fmt.Errorf("streamprobe: error while merging registers %s with %s, error: %v", h.key, g.key, err)
	}
	return nil
}

func (h *HyperLogLogRedis) Equals(g *HyperLogLogRedis) (bool, error) {
	if h.precision != g.precision {
		return false, nil
	}
	compareRegistersScript := redis.NewScript(`
		local key1 = KEYS[1]
		local key2 = KEYS[2]
		local size = tonumber(ARGV[1])
		local a = redis.call('LRANGE', key1, 0, -1)
		local b = redis.call('LRANGE', key2, 0, -1)
		for i = 1, size do
			if tonumber(a[i]) ~= tonumber(b[i]) then
				return false
			end
		end
		return true
	`)
	ok, err := compareRegistersScript.Run(
		context.Background(),
		streamprobe.GetRedisClient(),
		[]string{h.key, g.key},
		h.numRegisters,
	).Bool()
	if err != nil {
		// a Lua false comes back as a nil reply
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("streamprobe: error while comparing registers %s with %s, error: %v", h.key, g.key, err)
	}
	return ok, nil
}

func (h *HyperLogLogRedis) updateRegister(index uint64, rank uint8) error {
	// LINDEX + LSET must happen atomically under concurrent writers.
	updateRegisterScript := redis.NewScript(`
		local key = KEYS[1]
		local index = tonumber(ARGV[1])
		local rank = tonumber(ARGV[2])
		local current = tonumber(redis.call('LINDEX', key, index))
		if rank > current then
			redis.call('LSET', key, index, rank)
		end
		return true
	`)
	_, err := updateRegisterScript.Run(
		context.Background(),
		streamprobe.GetRedisClient(),
		[]string{h.key},
		index,
		rank,
	).Bool()
	if err != nil {
		return fmt.Errorf("streamprobe: error while updating hyperloglog register in redis, error: %v", err)
	}
	return nil
}

func (h *HyperLogLogRedis) readRegisterSummary() (float64, uint64, error) {
	// The harmonic mean comes back as a string: Lua numbers in script
	// replies are truncated to integers otherwise.
	summaryScript := redis.NewScript(`
		local key = KEYS[1]
		local size = tonumber(ARGV[1])
		local inverseSum = 0.0
		local zeros = 0
		local values = redis.call('LRANGE', key, 0, -1)
		for i = 1, size do
			local value = tonumber(values[i])
			inverseSum = inverseSum + 2^(-value)
			if value == 0 then
				zeros = zeros + 1
			end
		end
		return {tostring(inverseSum), zeros}
	`)
	result, err := summaryScript.Run(
		context.Background(),
		streamprobe.GetRedisClient(),
		[]string{h.key},
		h.numRegisters,
	).Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("streamprobe: error while reading hyperloglog registers from redis, error: %v", err)
	}
	if len(result) != 2 {
		return 0, 0, fmt.Errorf("streamprobe: unexpected register summary reply of length %d", len(result))
	}
	inverseSum, err := strconv.ParseFloat(result[0].(string), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("streamprobe: error parsing harmonic mean %q, error: %v", result[0], err)
	}
	zeroRegisters, ok := result[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("streamprobe: unexpected zero register count %v", result[1])
	}
	return inverseSum, uint64(zeroRegisters), nil
}

func (h *HyperLogLogRedis) initRegisters() error {
	// RPUSH in chunks; unpack can't take tens of thousands of arguments.
	initRegistersScript := redis.NewScript(`
		local key = KEYS[1]
		local size = tonumber(ARGV[1])
		local chunk = {}
		for i = 1, size do
			chunk[#chunk+1] = 0
			if #chunk == 1000 then
				redis.call('RPUSH', key, unpack(chunk))
				chunk = {}
			end
		end
		if #chunk > 0 then
			redis.call('RPUSH', key, unpack(chunk))
		end
		return true
	`)
	_, err := initRegistersScript.Run(
		context.Background(),
		streamprobe.GetRedisClient(),
		[]string{h.key},
		h.numRegisters,
	).Bool()
	if err != nil {
		return fmt.Errorf("streamprobe: error while initializing hyperloglog registers in redis, error: %v", err)
	}
	return nil
}
