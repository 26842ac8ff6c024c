package bitset

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/streamprobe/streamprobe"
)

// BitSetRedis is the Redis backed implementation of IBitSet. The bits live
// in a Redis string value manipulated with SETBIT/GETBIT, so several
// processes pointing at the same key share one filter state.
type BitSetRedis struct {
	size uint
	key  string
}

// NewBitSetRedis creates a zero-filled bit array of _size_ bits under a
// freshly generated Redis key.
func NewBitSetRedis(size uint) *BitSetRedis {
	bytes := make([]byte, (size+7)/8)
	key := streamprobe.GenerateRandomString(16)
	_ = streamprobe.GetRedisClient().Set(context.Background(), key, string(bytes), 0).Err()
	return &BitSetRedis{size, key}
}

// FromRedisKey attaches to the bit array already stored at _key_.
func FromRedisKey(key string) (*BitSetRedis, error) {
	val, err := streamprobe.GetRedisClient().Get(context.Background(), key).Result()
	if err != nil {
		return nil, fmt.Errorf("streamprobe: error fetching bitset at key %s, error: %v", key, err)
	}
	return &BitSetRedis{uint(len(val) * 8), key}, nil
}

func (bitSet *BitSetRedis) Size() uint {
	return bitSet.size
}

// Key returns the Redis key holding the bits.
func (bitSet *BitSetRedis) Key() string {
	return bitSet.key
}

func (bitSet *BitSetRedis) Has(index uint) (bool, error) {
	val, err := streamprobe.GetRedisClient().GetBit(context.Background(), bitSet.key, int64(index)).Result()
	if err != nil {
		return false, err
	}
	return val != 0, nil
}

func (bitSet *BitSetRedis) HasMulti(indexes []uint) ([]bool, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("streamprobe: at least 1 index is required")
	}
	pipe := streamprobe.GetRedisClient().Pipeline()
	ctx := context.Background()
	values := make([]*redis.IntCmd, len(indexes))
	for i := range indexes {
		values[i] = pipe.GetBit(ctx, bitSet.key, int64(indexes[i]))
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]bool, len(values))
	for i := range values {
		result[i] = values[i].Val() != 0
	}
	return result, nil
}

func (bitSet *BitSetRedis) Insert(index uint) (bool, error) {
	err := streamprobe.GetRedisClient().SetBit(context.Background(), bitSet.key, int64(index), 1).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

func (bitSet *BitSetRedis) InsertMulti(indexes []uint) (bool, error) {
	if len(indexes) == 0 {
		return false, fmt.Errorf("streamprobe: at least 1 index is required")
	}
	pipe := streamprobe.GetRedisClient().Pipeline()
	ctx := context.Background()
	for i := range indexes {
		pipe.SetBit(ctx, bitSet.key, int64(indexes[i]), 1)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (aSet *BitSetRedis) Equals(otherBitSet IBitSet) (bool, error) {
	bSet, ok := otherBitSet.(*BitSetRedis)
	if !ok {
		return false, fmt.Errorf("streamprobe: invalid bitset type, should be BitSetRedis")
	}
	aSetVal, err := streamprobe.GetRedisClient().Get(context.Background(), aSet.key).Result()
	if err != nil {
		return false, err
	}
	bSetVal, err := streamprobe.GetRedisClient().Get(context.Background(), bSet.key).Result()
	if err != nil {
		return false, err
	}
	return aSetVal == bSetVal, nil
}

func (bitSet *BitSetRedis) BitCount() (uint, error) {
	bitRange := &redis.BitCount{Start: 0, End: -1}
	val, err := streamprobe.GetRedisClient().BitCount(context.Background(), bitSet.key, bitRange).Result()
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}
