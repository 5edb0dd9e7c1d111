package pool

import "sync"

var keySlicePool = sync.Pool{
	New: func() any {
		s := make([]string, 0, 16)
		return &s
	},
}

// AcquireKeys gets an empty string slice from the pool.
func AcquireKeys() *[]string {
	s := keySlicePool.Get().(*[]string)
	*s = (*s)[:0]
	return s
}

// ReleaseKeys returns a slice obtained from AcquireKeys.
func ReleaseKeys(s *[]string) {
	if s == nil {
		return
	}
	// Don't return oversized slices
	if cap(*s) <= 256 {
		keySlicePool.Put(s)
	}
}
