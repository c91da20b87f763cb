package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding returns a simple deterministic embedding for the given
// text: total length, word count, vowels, consonants and digits. Crude, but
// stable, which is all nearest-neighbour ordering in tests and dev needs.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var vowels, consonants, digits float32
	for _, r := range text {
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
		case r >= 'a' && r <= 'z':
			consonants++
		case r >= '0' && r <= '9':
			digits++
		}
	}
	length := float32(len(text))
	words := float32(len(strings.Fields(text)))
	return pgvector.NewVector([]float32{length, words, vowels, consonants, digits})
}
