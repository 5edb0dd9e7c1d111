// Package pool provides sync.Pool wrappers used while walking instances.
package pool

import (
	"strconv"
	"sync"
)

// PathBuilder builds element paths such as Patient.contact[0].name in a
// reusable byte buffer.
type PathBuilder struct {
	buf []byte
}

var pathBuilderPool = sync.Pool{
	New: func() any {
		return &PathBuilder{buf: make([]byte, 0, 128)}
	},
}

// AcquirePathBuilder gets a PathBuilder from the pool.
// Call Release() when done to return it to the pool.
func AcquirePathBuilder() *PathBuilder {
	pb := pathBuilderPool.Get().(*PathBuilder)
	pb.buf = pb.buf[:0]
	return pb
}

// Release returns the PathBuilder to the pool.
func (b *PathBuilder) Release() {
	if b == nil {
		return
	}
	// Don't return oversized buffers to the pool
	if cap(b.buf) <= 4096 {
		pathBuilderPool.Put(b)
	}
}

// WriteString appends s verbatim.
func (b *PathBuilder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// Field appends .name, or name alone when the buffer is empty.
func (b *PathBuilder) Field(name string) {
	if len(b.buf) > 0 {
		b.buf = append(b.buf, '.')
	}
	b.buf = append(b.buf, name...)
}

// Index appends [n].
func (b *PathBuilder) Index(n int) {
	b.buf = append(b.buf, '[')
	b.buf = strconv.AppendInt(b.buf, int64(n), 10)
	b.buf = append(b.buf, ']')
}

// Len returns the current length of the path.
func (b *PathBuilder) Len() int {
	return len(b.buf)
}

// String returns the built path.
func (b *PathBuilder) String() string {
	return string(b.buf)
}

// Field returns base.name, or name when base is empty.
func Field(base, name string) string {
	pb := AcquirePathBuilder()
	defer pb.Release()
	pb.WriteString(base)
	pb.Field(name)
	return pb.String()
}

// Index returns base[n].
func Index(base string, n int) string {
	pb := AcquirePathBuilder()
	defer pb.Release()
	pb.WriteString(base)
	pb.Index(n)
	return pb.String()
}

// Join joins segments with dots, skipping empty ones.
func Join(segments ...string) string {
	pb := AcquirePathBuilder()
	defer pb.Release()
	for _, s := range segments {
		if s != "" {
			pb.Field(s)
		}
	}
	return pb.String()
}
