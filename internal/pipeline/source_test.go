package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collectLines(t *testing.T, path string) ([]RawLine, error) {
	t.Helper()
	out := make(chan RawLine, 64)
	errCh := make(chan error, 1)
	go func() {
		errCh <- StreamLines(context.Background(), path, out)
	}()

	var lines []RawLine
	for line := range out {
		lines = append(lines, line)
	}
	return lines, <-errCh
}

func TestStreamLines_NotFound(t *testing.T) {
	out := make(chan RawLine, 1)
	err := StreamLines(context.Background(), filepath.Join(t.TempDir(), "nope.log"), out)
	require.ErrorIs(t, err, ErrInputNotFound)

	// channel must be closed even on failure
	_, open := <-out
	require.False(t, open)
}

func TestStreamLines_ReadsAllLines(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\nthree\n")
	lines, err := collectLines(t, path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	require.Equal(t, "one", lines[0].Text)
	require.Equal(t, "three", lines[2].Text)
	require.Equal(t, int64(1), lines[0].Ordinal)
	require.Equal(t, int64(3), lines[2].Ordinal)
	require.Equal(t, path, lines[0].File)
}

func TestStreamLines_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "")
	lines, err := collectLines(t, path)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestStreamLines_NoTrailingNewline(t *testing.T) {
	path := writeTempFile(t, "one\ntwo")
	lines, err := collectLines(t, path)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, "two", lines[1].Text)
}

func TestStreamLines_LossyDecode(t *testing.T) {
	path := writeTempFile(t, "ok line\n\xff\xfe broken\n")
	lines, err := collectLines(t, path)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Contains(t, lines[1].Text, "�")
}

func TestStreamLines_Cancelled(t *testing.T) {
	path := writeTempFile(t, "one\ntwo\nthree\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan RawLine) // unbuffered so the send blocks on the select
	err := StreamLines(ctx, path, out)
	require.ErrorIs(t, err, context.Canceled)
}
