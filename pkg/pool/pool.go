package pool

import (
	"errors"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrSearchExhausted is returned by Search when the attempt budget ran out
// before enough successful candidates were found.
var ErrSearchExhausted = errors.New("pool: search exhausted its attempts")

// searchAlone runs f, which may return nil, until count elements are found,
// or maxAttempts calls have been made.
func searchAlone(f func() interface{}, count, maxAttempts int) ([]interface{}, error) {
	results := make([]interface{}, count)
	attempts := 0
	for i := 0; i < len(results); i++ {
		for results[i] == nil {
			if attempts >= maxAttempts {
				return nil, ErrSearchExhausted
			}
			attempts++
			results[i] = f()
		}
	}
	return results, nil
}

// parallelizeAlone calculates the result of f count times
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to do something.
//
// The idea is that a worker is told to either calculate a function once,
// or keep calculating a function until it returns a non nil result.
type command struct {
	search bool
	// This counter indicates the number of results that still need to be produced.
	ctr *int64
	// This counter holds the number of calls to f that may still be made.
	attempts *int64
	// This is the index we evaluate our function at, when not searching
	i int
	f func(int) interface{}
	// This is the array where we put results
	results []interface{}
	// done receives one value each time a worker is finished with this command.
	done chan<- struct{}
}

// workerSearch is the subroutine called when doing a search command.
//
// We need to keep searching for successful queries of f while *ctr > 0 and
// there are attempts left. When we find a successful result, we decrement *ctr.
func workerSearch(results []interface{}, f func(int) interface{}, ctr, attempts *int64) {
	for atomic.LoadInt64(ctr) > 0 {
		if atomic.AddInt64(attempts, -1) < 0 {
			return
		}
		res := f(0)
		if res == nil {
			continue
		}
		i := atomic.AddInt64(ctr, -1)
		if i < 0 {
			return
		}
		results[i] = res
	}
}

// worker starts up a new worker, listening to commands, and producing results
func worker(commands <-chan command) {
	for c := range commands {
		if c.search {
			workerSearch(c.results, c.f, c.ctr, c.attempts)
		} else {
			c.results[c.i] = c.f(c.i)
		}
		c.done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current thread instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new operation. A Pool may be shared between goroutines, but the
// functions it runs must not use the same Pool themselves.
type Pool struct {
	// The common channel used to send commands to the workers.
	//
	// This effectively makes a work stealing pool.
	commands chan command
	// This holds the number of workers we've created
	workerCount int
	once        sync.Once
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.commands = make(chan command)
	p.workerCount = count

	for i := 0; i < count; i++ {
		go worker(p.commands)
	}

	return &p
}

// TearDown cleanly tears down a pool, closing channels, etc.
//
// It is safe to call TearDown on a nil Pool, and to call it more than once.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		close(p.commands)
	})
}

// Search queries the function f, until count successes are found.
//
// f is supposed to try a single candidate, returning nil if that candidate isn't
// successful. At most maxAttempts calls to f are made overall; if count successes
// were not found by then, ErrSearchExhausted is returned.
//
// The result will be an array containing the first count successes.
func (p *Pool) Search(count, maxAttempts int, f func() interface{}) ([]interface{}, error) {
	if p == nil {
		return searchAlone(f, count, maxAttempts)
	}

	results := make([]interface{}, count)
	done := make(chan struct{}, p.workerCount)

	ctr := int64(count)
	attempts := int64(maxAttempts)
	cmd := command{
		search:   true,
		ctr:      &ctr,
		attempts: &attempts,
		f:        func(int) interface{} { return f() },
		results:  results,
		done:     done,
	}
	for i := 0; i < p.workerCount; i++ {
		p.commands <- cmd
	}
	for i := 0; i < p.workerCount; i++ {
		<-done
	}

	if atomic.LoadInt64(&ctr) > 0 {
		return nil, ErrSearchExhausted
	}
	return results, nil
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	// Workers never block on done, since it can hold every result.
	done := make(chan struct{}, count)

	for i := 0; i < count; i++ {
		p.commands <- command{
			search:  false,
			i:       i,
			f:       f,
			results: results,
			done:    done,
		}
	}
	for i := 0; i < count; i++ {
		<-done
	}

	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This type implements io.Reader, returning the same output.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader
//
// The behavior is to return the same output as the underlying reader. The difference
// is that it's safe to call this function concurrently.
//
// Naturally, when calling this function concurrently, what value ends up getting
// read is raced, but you won't end up reading the same value twice, or otherwise
// messing up the state of the reader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
