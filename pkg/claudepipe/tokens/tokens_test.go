package tokens

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestCountEmpty(t *testing.T) {
	assert.Zero(t, Count(""))
}

func TestCountPositive(t *testing.T) {
	assert.Positive(t, Count("hello world"))
	assert.Positive(t, Count("x"))
}

func TestCountGrowsWithInput(t *testing.T) {
	short := Count("one sentence of text")
	long := Count(strings.Repeat("one sentence of text ", 50))
	assert.Greater(t, long, short)
}

func TestChunkEdgeCases(t *testing.T) {
	assert.Nil(t, Chunk("", 10))
	assert.Nil(t, Chunk("hello", 0))
	assert.Nil(t, Chunk("   \n\t  ", 10))
}

func TestChunkSingleOversizedWord(t *testing.T) {
	word := strings.Repeat("a", 400)
	chunks := Chunk(word, 5)
	assert.Equal(t, []string{word}, chunks, "a single word is never split")
}

func TestChunkKeepsWordsIntact(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog " +
		"pack my box with five dozen liquor jugs"
	chunks := Chunk(text, 8)
	assert.Greater(t, len(chunks), 1)

	var rejoined []string
	for _, chunk := range chunks {
		rejoined = append(rejoined, strings.Fields(chunk)...)
	}
	assert.Equal(t, strings.Fields(text), rejoined)
}

func TestChunkProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	wordGen := gen.SliceOfN(30, gen.Identifier())

	properties.Property("chunks preserve word order and content", prop.ForAll(
		func(words []string, maxTokens int) bool {
			text := strings.Join(words, " ")
			var rejoined []string
			for _, chunk := range Chunk(text, maxTokens) {
				rejoined = append(rejoined, strings.Fields(chunk)...)
			}
			original := strings.Fields(text)
			if len(rejoined) != len(original) {
				return false
			}
			for i := range rejoined {
				if rejoined[i] != original[i] {
					return false
				}
			}

			return true
		},
		wordGen,
		gen.IntRange(1, 50),
	))

	properties.Property("multi-word chunks respect the budget", prop.ForAll(
		func(words []string, maxTokens int) bool {
			for _, chunk := range Chunk(strings.Join(words, " "), maxTokens) {
				// Oversized single words are allowed through whole.
				if len(strings.Fields(chunk)) > 1 && Count(chunk) > maxTokens {
					return false
				}
			}

			return true
		},
		wordGen,
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}
