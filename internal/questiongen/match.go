package questiongen

import (
	"regexp"
	"strings"
	"unicode"
)

// Blank replaces the keyword in fill-in-the-blank questions.
const Blank = "_____"

// termMatcher finds a term delimited by non-word runes. Letters and digits
// of every script count as word runes.
type termMatcher struct {
	re *regexp.Regexp
}

// wholeWord matches term case-insensitively as a standalone word.
func wholeWord(term string) termMatcher {
	return termMatcher{re: regexp.MustCompile(
		`(?i)(?:^|[^\p{L}\p{N}_])(` + regexp.QuoteMeta(term) + `)(?:$|[^\p{L}\p{N}_])`,
	)}
}

func (m termMatcher) MatchString(s string) bool {
	return m.re.MatchString(s)
}

// FindStringIndex returns the byte span of the first match of the term
// itself, without its delimiters, or nil.
func (m termMatcher) FindStringIndex(s string) []int {
	loc := m.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	return loc[2:4]
}

// answerWindow returns the words from three before to three after the first
// standalone occurrence of keyword. It falls back to the whole sentence when
// the keyword is missing or the window is shorter than five words.
func answerWindow(sentence, keyword string) string {
	words := strings.Fields(sentence)
	idx := -1
	for i, w := range words {
		if strings.EqualFold(strings.TrimFunc(w, notWordRune), keyword) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return sentence
	}

	lo, hi := idx-3, idx+4
	if lo < 0 {
		lo = 0
	}
	if hi > len(words) {
		hi = len(words)
	}
	if hi-lo < 5 {
		return sentence
	}

	answer := strings.TrimRight(strings.Join(words[lo:hi], " "), ",;:")
	if !strings.HasSuffix(answer, ".") && !strings.HasSuffix(answer, "!") && !strings.HasSuffix(answer, "?") {
		answer += "."
	}
	return answer
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
