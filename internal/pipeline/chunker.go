package pipeline

import "context"

// ChunkLines groups the line stream into batches of exactly size lines,
// except for the final batch which holds the remainder. No batch is ever
// empty, and at most one unsent batch is buffered at a time. Closes out
// when in is drained.
func ChunkLines(ctx context.Context, in <-chan RawLine, size int, out chan<- Chunk) {
	defer close(out)

	if size < 1 {
		size = 1
	}

	chunk := make(Chunk, 0, size)
	for line := range in {
		chunk = append(chunk, line)
		if len(chunk) >= size {
			select {
			case <-ctx.Done():
				return
			case out <- chunk:
				chunk = make(Chunk, 0, size)
			}
		}
	}

	if len(chunk) > 0 {
		select {
		case <-ctx.Done():
		case out <- chunk:
		}
	}
}

// CollectChunks drains the chunk stream into a slice so the scheduler can
// partition it into contiguous per-worker slices. Lines are still produced
// lazily upstream; only the chunk index is materialized.
func CollectChunks(in <-chan Chunk) []Chunk {
	var chunks []Chunk
	for c := range in {
		chunks = append(chunks, c)
	}
	return chunks
}
