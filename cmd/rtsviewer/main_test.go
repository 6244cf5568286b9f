package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/rtsviewer/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{"-headless", "-ticks", "3", "-assets", dir, "-log-level", "error"})
	assert.NoError(t, err, "a missing scene is logged, not fatal")
}

func TestRunRejectsBadInput(t *testing.T) {
	assert.Error(t, run([]string{"-log-level", "loud"}))
	assert.Error(t, run([]string{"-nope"}))

	path := filepath.Join(t.TempDir(), "viewer.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	assert.ErrorIs(t, run([]string{"-config", path, "-headless"}), viewer.ErrUnknownConfigFormat)
}
