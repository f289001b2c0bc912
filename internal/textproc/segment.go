// Package textproc splits raw text into sentences and words and owns the
// stopword set shared by every extractor.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t\r]*\n`)

// abbreviations never end a sentence when followed by a period.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {}, "st": {},
	"mt": {}, "vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "inc": {}, "ltd": {}, "co": {},
	"corp": {}, "no": {}, "fig": {}, "approx": {}, "dept": {}, "est": {}, "gen": {},
	"gov": {}, "sen": {}, "rep": {}, "rev": {}, "lt": {}, "col": {}, "sgt": {}, "capt": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {}, "aug": {},
	"sep": {}, "sept": {}, "oct": {}, "nov": {}, "dec": {},
	"u.s": {}, "u.k": {}, "a.m": {}, "p.m": {}, "ph.d": {},
}

// Segment splits text into sentences in source order. Whitespace inside a
// sentence is collapsed to single spaces. Empty input yields no sentences.
func Segment(text string) []string {
	var sentences []string
	for _, para := range paragraphBreak.Split(text, -1) {
		sentences = append(sentences, segmentParagraph(para)...)
	}
	return sentences
}

func segmentParagraph(p string) []string {
	var out []string
	start, i := 0, 0
	for i < len(p) {
		r, size := utf8.DecodeRuneInString(p[i:])
		if !isTerminator(r) {
			i += size
			continue
		}

		end := i + size
		for end < len(p) {
			next, n := utf8.DecodeRuneInString(p[end:])
			if !isTerminator(next) && !isCloser(next) {
				break
			}
			end += n
		}

		if end < len(p) {
			next, _ := utf8.DecodeRuneInString(p[end:])
			if !unicode.IsSpace(next) {
				i = end
				continue
			}
		}
		if r == '.' && !endsSentence(p[start:i], p[end:]) {
			i = end
			continue
		}

		if s := collapse(p[start:end]); s != "" {
			out = append(out, s)
		}
		start, i = end, end
	}
	if s := collapse(p[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func endsSentence(before, after string) bool {
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return true
	}
	word := strings.TrimLeftFunc(fields[len(fields)-1], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if _, ok := abbreviations[strings.ToLower(word)]; ok {
		return false
	}
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		if unicode.IsUpper(r) {
			return false
		}
	}
	if strings.Contains(word, ".") {
		return false
	}

	rest := strings.TrimLeftFunc(after, unicode.IsSpace)
	if rest == "" {
		return true
	}
	next, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLower(next)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
