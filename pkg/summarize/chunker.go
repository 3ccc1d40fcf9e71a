// Package summarize turns extracted document text into AI-generated
// summaries, chunking long documents and summarizing map-then-reduce.
package summarize

import "strings"

// SentenceDelimiter is the literal boundary used for chunk splitting. Chunk
// sizing is approximate by design; sentence boundaries just keep chunks from
// cutting mid-thought.
const SentenceDelimiter = "."

// Chunk splits text into pieces of at most max characters, packing whole
// sentences greedily. Each chunk is re-joined with the delimiter and carries a
// trailing delimiter. A single sentence longer than max becomes its own
// oversized chunk rather than being cut.
func Chunk(text string, max int) []string {
	var chunks []string
	var current []string
	length := 0

	for _, sentence := range strings.Split(text, SentenceDelimiter) {
		sentenceLen := len(sentence) + 1 // +1 for the delimiter
		if len(current) > 0 && length+sentenceLen > max {
			chunks = append(chunks, strings.Join(current, SentenceDelimiter)+SentenceDelimiter)
			current = current[:0]
			length = 0
		}
		current = append(current, sentence)
		length += sentenceLen
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, SentenceDelimiter)+SentenceDelimiter)
	}
	return chunks
}
