package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Parallelize(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(4)} {
		results := pl.Parallelize(100, func(i int) interface{} {
			return i * i
		})
		require.Len(t, results, 100)
		for i, r := range results {
			assert.Equal(t, i*i, r)
		}
		pl.TearDown()
	}
}

func TestPool_Search(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(4)} {
		var calls int64
		results, err := pl.Search(3, 1000, func() interface{} {
			if atomic.AddInt64(&calls, 1)%5 != 0 {
				return nil
			}
			return true
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Equal(t, true, r)
		}
		pl.TearDown()
	}
}

func TestPool_SearchExhausted(t *testing.T) {
	for _, pl := range []*Pool{nil, NewPool(4)} {
		var calls int64
		_, err := pl.Search(1, 50, func() interface{} {
			atomic.AddInt64(&calls, 1)
			return nil
		})
		assert.ErrorIs(t, err, ErrSearchExhausted)
		assert.LessOrEqual(t, atomic.LoadInt64(&calls), int64(50))
		pl.TearDown()
	}
}

func TestPool_SharedBetweenGoroutines(t *testing.T) {
	pl := NewPool(3)
	defer pl.TearDown()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		g := g
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := pl.Parallelize(20, func(i int) interface{} { return g + i })
			for i, r := range results {
				assert.Equal(t, g+i, r)
			}
		}()
	}
	wg.Wait()
}

func TestLockedReader(t *testing.T) {
	data := make([]byte, 64*32)
	for i := range data {
		data[i] = byte(i)
	}
	r := NewLockedReader(bytes.NewReader(data))

	var wg sync.WaitGroup
	var total int64
	for g := 0; g < 64; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]byte, 32)
			n, _ := r.Read(buf)
			atomic.AddInt64(&total, int64(n))
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(len(data)), total)
}
