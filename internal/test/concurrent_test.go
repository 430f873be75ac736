package test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrently(t *testing.T) {
	var calls int64
	require.NoError(t, Concurrently(16, func(int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}))
	assert.EqualValues(t, 16, calls)

	sentinel := errors.New("boom")
	err := Concurrently(8, func(i int) error {
		if i == 5 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "goroutine 5")
}

func TestFailingReader(t *testing.T) {
	n, err := FailingReader{}.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.Error(t, err)
}
