// Package test contains helpers shared by tests.
package test

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

// Concurrently runs f(0), …, f(n-1) in parallel and returns the first error.
// Every call is wrapped with its index.
func Concurrently(n int, f func(i int) error) error {
	var errGroup errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		errGroup.Go(func() error {
			if err := f(i); err != nil {
				return fmt.Errorf("goroutine %d: %w", i, err)
			}
			return nil
		})
	}
	return errGroup.Wait()
}

// FailingReader is a randomness source that always fails.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) {
	return 0, assert.AnError
}
