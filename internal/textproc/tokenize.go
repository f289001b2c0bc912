package textproc

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’\-][\p{L}\p{N}]+)*`)

// termPattern matches the runs of two or more word characters used as TF-IDF terms.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Token is a word with its byte span in the source string.
type Token struct {
	Text  string
	Start int
	End   int
}

// Words returns the words of s in order, punctuation dropped.
func Words(s string) []string {
	return wordPattern.FindAllString(s, -1)
}

// Tokens returns the words of s with their byte offsets.
func Tokens(s string) []Token {
	idx := wordPattern.FindAllStringIndex(s, -1)
	tokens := make([]Token, 0, len(idx))
	for _, span := range idx {
		tokens = append(tokens, Token{Text: s[span[0]:span[1]], Start: span[0], End: span[1]})
	}
	return tokens
}

// Terms lowercases s and returns its index terms with stopwords removed.
func Terms(s string) []string {
	raw := termPattern.FindAllString(strings.ToLower(s), -1)
	terms := raw[:0]
	for _, t := range raw {
		if !IsStopword(t) {
			terms = append(terms, t)
		}
	}
	return terms
}
