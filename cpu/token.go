package cpu

import (
	"strings"
)

// COMMENT starts a comment that runs to the end of the line.
const COMMENT = "#"

// Tokenize splits a source line into upper-case words, dropping any comment.
// A blank or comment-only line yields no words.
func Tokenize(line string) (words []string) {
	if n := strings.Index(line, COMMENT); n >= 0 {
		line = line[:n]
	}

	for _, word := range strings.Fields(line) {
		words = append(words, strings.ToUpper(word))
	}

	return
}
