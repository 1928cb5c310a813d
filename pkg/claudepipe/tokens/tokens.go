// Package tokens estimates token counts and splits oversized prompts at
// word boundaries. Counting prefers a real BPE tokenizer; when the
// encoding data is unavailable (offline environments) it falls back to a
// character heuristic rather than failing the query.
package tokens

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the BPE vocabulary used for estimates.
const encodingName = "cl100k_base"

// heuristicCharsPerToken approximates English prose when no tokenizer
// is available.
const heuristicCharsPerToken = 4

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

func encoding() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		// The loader may need network access for the vocabulary; a nil
		// encoder switches Count to the heuristic.
		enc, _ = tiktoken.GetEncoding(encodingName)
	})

	return enc
}

// Count estimates how many tokens text occupies.
func Count(text string) int {
	if text == "" {
		return 0
	}
	if tk := encoding(); tk != nil {
		return len(tk.Encode(text, nil, nil))
	}

	n := utf8.RuneCountInString(text)

	return (n + heuristicCharsPerToken - 1) / heuristicCharsPerToken
}

// Chunk splits text into pieces of at most maxTokens each, breaking at
// word boundaries. A single word longer than the budget becomes its own
// oversized chunk rather than being split mid-word.
func Chunk(text string, maxTokens int) []string {
	if maxTokens <= 0 || text == "" {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		candidate := word
		if current.Len() > 0 {
			candidate = current.String() + " " + word
		}
		if Count(candidate) <= maxTokens {
			if current.Len() > 0 {
				current.WriteByte(' ')
			}
			current.WriteString(word)

			continue
		}

		flush()
		// The word alone may still exceed the budget; emit it whole.
		current.WriteString(word)
		if Count(word) > maxTokens {
			flush()
		}
	}
	flush()

	return chunks
}
