package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// RawLine is a single decoded line of input together with where it came from.
type RawLine struct {
	File    string `json:"file"`
	Ordinal int64  `json:"ordinal"` // 1-based position in the file
	Text    string `json:"text"`
}

// Chunk is a fixed-size contiguous batch of lines, the unit of parallel work.
type Chunk []RawLine

// maxLineSize bounds a single scanned line; real-world logs occasionally
// carry multi-KB stack traces, so this is generous.
const maxLineSize = 1024 * 1024

// StreamLines reads path line by line and sends every line on out, closing
// out when the file is exhausted. Bytes that are not valid UTF-8 are
// replaced with U+FFFD rather than failing the read, so a noisy log never
// aborts a run. Returns ErrInputNotFound when the path does not exist.
//
// The file handle is held only for the duration of the call and released
// on every exit path.
func StreamLines(ctx context.Context, path string, out chan<- RawLine) error {
	defer close(out)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var ordinal int64
	for scanner.Scan() {
		ordinal++
		text := scanner.Text()
		if !utf8.ValidString(text) {
			text = strings.ToValidUTF8(text, "�")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- RawLine{File: path, Ordinal: ordinal, Text: text}:
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed reading %s: %w", path, err)
	}
	return nil
}
