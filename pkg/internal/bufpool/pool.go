package bufpool

import "sync"

var pools = []struct {
	size int
	pool sync.Pool
}{
	{
		size: 1024,
		pool: sync.Pool{
			New: func() any { return make([]byte, 1024) },
		},
	},
	{
		size: 8 * 1024,
		pool: sync.Pool{
			New: func() any { return make([]byte, 8*1024) },
		},
	},
	{
		size: 32 * 1024,
		pool: sync.Pool{
			New: func() any { return make([]byte, 32*1024) },
		},
	},
	{
		size: 64 * 1024,
		pool: sync.Pool{
			New: func() any { return make([]byte, 64*1024) },
		},
	},
}

// Get returns a buffer of at least size bytes, sliced to size. Buffers
// larger than the biggest pool class are allocated directly.
func Get(size int) []byte {
	for i := range pools {
		if size <= pools[i].size {
			return pools[i].pool.Get().([]byte)[:size]
		}
	}
	return make([]byte, size)
}

func Put(b []byte) {
	for i := range pools {
		if cap(b) == pools[i].size {
			pools[i].pool.Put(b[:cap(b)])
			return
		}
	}
}
