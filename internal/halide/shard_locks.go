package halide

import "sync"

// shardLocks serializes concurrent writes to the output canvas: two grains
// may target the same pixel, and the mapping pixel→shard keeps the lock
// array small at any canvas size.
type shardLocks struct{ mu [NumShards]sync.Mutex }

func (sl *shardLocks) lock(idx int)   { sl.mu[idx&(NumShards-1)].Lock() }
func (sl *shardLocks) unlock(idx int) { sl.mu[idx&(NumShards-1)].Unlock() }
