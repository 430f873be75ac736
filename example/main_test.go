package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "election.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rsa:\n  bits: 1024\nmax_vote: 1024\n"), 0o600))
	require.NoError(t, run(path, 5, 3, zerolog.Nop()))
}
