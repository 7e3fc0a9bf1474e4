// Package text provides the word splitting and counting helpers shared by the
// segmenter, the reducer and the summarizer adapters.
package text

import (
	"strings"
	"unicode"
)

// Words splits text into whitespace-delimited tokens.
// Any run of Unicode whitespace (spaces, tabs, newlines) separates two words,
// and leading or trailing whitespace produces no empty tokens.
//
// Examples:
//
//	Words("a  b\nc")  // returns ["a", "b", "c"]
//	Words("   ")      // returns []
func Words(text string) []string {
	return strings.Fields(text)
}

// CountWords returns the number of whitespace-delimited tokens in text.
// This is the word count used for every threshold and statistic in the service.
func CountWords(text string) int {
	n := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// JoinWords joins words with single spaces.
func JoinWords(words []string) string {
	return strings.Join(words, " ")
}
