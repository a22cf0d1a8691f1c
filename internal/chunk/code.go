package chunk

import (
	"strings"
	"unicode/utf8"

	"github.com/JavOrraca/Vector-DB-and-RAG-Maker/internal/corpus"
)

// splitCode chunks source code by size and overlap alone. Structure comes from
// boundary selection inside each window, not from parsing.
func splitCode(file *corpus.SourceFile, params Params) []Chunk {
	pieces := windows(file.Text, params)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{
			Text:   piece,
			Source: file.Path,
			Index:  i,
			Kind:   file.Kind,
		})
	}
	return chunks
}

// windows cuts text into pieces of at most params.Size bytes, adjacent
// pieces sharing params.Overlap bytes. Inside each window the cut lands on
// the last blank line if one exists, else the last line break, else a hard
// cut backed up to the nearest rune boundary. Text that already fits is
// returned whole and untouched.
func windows(text string, params Params) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= params.Size {
		return []string{text}
	}

	var pieces []string
	start := 0
	for start < len(text) {
		end := start + params.Size
		if end >= len(text) {
			pieces = append(pieces, text[start:])
			break
		}

		cut := cutPoint(text[start:end])
		if cut <= params.Overlap {
			// Boundary too early to make progress with this overlap.
			cut = params.Size
		}
		// Hard cuts are byte offsets and can land inside a multi-byte
		// rune; back up to the rune start so pieces stay valid UTF-8.
		for cut > 0 && !utf8.RuneStart(text[start+cut]) {
			cut--
		}
		if cut == 0 {
			// Window narrower than the rune at start. Emit it whole.
			_, cut = utf8.DecodeRuneInString(text[start:])
		}
		pieces = append(pieces, text[start:start+cut])

		next := start + cut - params.Overlap
		if next <= start {
			next = start + cut
		}
		// The overlapped start must land on a rune boundary too.
		for next < len(text) && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}
	return pieces
}

// cutPoint picks where to end a full window. Cuts in the first half of the
// window are rejected so that one early boundary cannot produce a stream of
// tiny chunks.
func cutPoint(window string) int {
	mid := len(window) / 2
	if idx := strings.LastIndex(window, "\n\n"); idx > mid {
		return idx + 2
	}
	if idx := strings.LastIndex(window, "\n"); idx > mid {
		return idx + 1
	}
	return len(window)
}
