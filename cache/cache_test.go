package cache

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("z"); ok {
		t.Error("Get(z) should miss")
	}

	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after update = %d; want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d; want 2", c.Len())
	}
}

func TestCache_Eviction(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
	if s := c.Stats(); s.Evicts != 1 {
		t.Errorf("Evicts = %d; want 1", s.Evicts)
	}
}

func TestCache_GetOrCompute(t *testing.T) {
	c := New[string, string](4)
	calls := 0
	compute := func() (string, error) {
		calls++
		return "compiled", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute("expr", compute)
		if err != nil || v != "compiled" {
			t.Fatalf("GetOrCompute() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times; want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrCompute("bad", func() (string, error) { return "", boom }); !errors.Is(err, boom) {
		t.Errorf("GetOrCompute(bad) error = %v", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed computation was cached")
	}
}

func TestCache_StatsAndPurge(t *testing.T) {
	c := New[int, int](0)
	if s := c.Stats(); s.Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d; want %d", s.Capacity, DefaultCapacity)
	}
	c.Set(1, 1)
	c.Get(1)
	c.Get(2)

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.HitRate != 0.5 {
		t.Errorf("Stats() = %+v", s)
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%64)
				_, _ = c.GetOrCompute(key, func() (int, error) { return i, nil })
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkCache_GetOrCompute(b *testing.B) {
	c := New[string, int](100)
	for i := 0; i < b.N; i++ {
		_, _ = c.GetOrCompute("k", func() (int, error) { return 1, nil })
	}
}
