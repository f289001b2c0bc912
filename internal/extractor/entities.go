package extractor

import (
	"quiz-forge/internal/domain"
	"quiz-forge/internal/textproc"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const monthPattern = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\.?`

// datePatterns are tried in order; earlier, longer forms win over bare years.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b` + monthPattern + `\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`\b` + monthPattern + `\s+\d{4}\b`),
	regexp.MustCompile(`\b(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\b`),
	regexp.MustCompile(`\b\d{4}s\b`),
	regexp.MustCompile(`\b(?:1[0-9]|20)\d{2}\b`),
}

var yearPattern = datePatterns[len(datePatterns)-1]

// locativePrepositions mark the following proper noun as a place.
var locativePrepositions = map[string]struct{}{
	"in": {}, "at": {}, "from": {}, "near": {}, "to": {}, "across": {}, "throughout": {}, "into": {},
}

var determiners = map[string]struct{}{"The": {}, "A": {}, "An": {}}

type span struct {
	start, end int
	label      domain.EntityLabel
}

// EntityDetector is a rule-based named-entity recognizer: date patterns,
// capitalised spans and gazetteer lookups.
type EntityDetector struct {
	phrases    map[string]domain.EntityLabel
	maxPhrase  int
	firstNames map[string]struct{}
	titles     map[string]struct{}
	orgHeads   map[string]struct{}
	orgLeads   map[string]struct{}
	locHeads   map[string]struct{}
	locLeads   map[string]struct{}
	eventHeads map[string]struct{}
	connectors map[string]struct{}
	ignore     map[string]struct{}
}

var _ domain.EntityRecognizer = (*EntityDetector)(nil)

func NewEntityDetector(g *Gazetteer) *EntityDetector {
	d := &EntityDetector{
		phrases:    make(map[string]domain.EntityLabel),
		firstNames: toSet(g.FirstNames),
		titles:     toSet(g.Titles),
		orgHeads:   toSet(g.OrganizationHeads),
		orgLeads:   toSet(g.OrganizationLeads),
		locHeads:   toSet(g.LocationHeads),
		locLeads:   toSet(g.LocationLeads),
		eventHeads: toSet(g.EventHeads),
		connectors: toSet(g.Connectors),
		ignore:     toSet(g.Ignore),
	}
	d.addPhrases(g.Persons, domain.LabelPerson)
	d.addPhrases(g.Organizations, domain.LabelOrg)
	d.addPhrases(g.Locations, domain.LabelGPE)
	d.addPhrases(g.Events, domain.LabelEvent)
	d.addPhrases(g.Products, domain.LabelProduct)
	return d
}

// NewDefaultEntityDetector builds a detector over the embedded gazetteer.
func NewDefaultEntityDetector() *EntityDetector {
	return NewEntityDetector(DefaultGazetteer())
}

func (d *EntityDetector) addPhrases(phrases []string, label domain.EntityLabel) {
	for _, p := range phrases {
		d.phrases[p] = label
		if n := len(textproc.Tokens(p)); n > d.maxPhrase {
			d.maxPhrase = n
		}
	}
}

// Recognize returns the entities of text in order of appearance. Repeated
// mentions are reported each time.
func (d *EntityDetector) Recognize(text string) []domain.Entity {
	var entities []domain.Entity
	for _, sentence := range textproc.Segment(text) {
		for _, sp := range d.scan(sentence) {
			entities = append(entities, domain.Entity{Text: sentence[sp.start:sp.end], Label: sp.label})
		}
	}
	return entities
}

func (d *EntityDetector) scan(s string) []span {
	var spans []span

	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			if re == yearPattern && !standaloneYear(s, loc[0], loc[1]) {
				continue
			}
			if !overlaps(spans, loc[0], loc[1]) {
				spans = append(spans, span{start: loc[0], end: loc[1], label: domain.LabelDate})
			}
		}
	}

	tokens := textproc.Tokens(s)
	for i := 0; i < len(tokens); {
		if overlaps(spans, tokens[i].Start, tokens[i].End) {
			i++
			continue
		}
		if n, label := d.matchPhrase(s, tokens, i, spans); n > 0 {
			spans = append(spans, span{start: tokens[i].Start, end: tokens[i+n-1].End, label: label})
			i += n
			continue
		}
		if !capitalized(tokens[i].Text) {
			i++
			continue
		}

		j := i + 1
		for j < len(tokens) && adjacent(s, tokens[j-1], tokens[j]) && !overlaps(spans, tokens[j].Start, tokens[j].End) {
			if capitalized(tokens[j].Text) {
				j++
				continue
			}
			if _, ok := d.connectors[tokens[j].Text]; ok && j+1 < len(tokens) &&
				adjacent(s, tokens[j], tokens[j+1]) && capitalized(tokens[j+1].Text) &&
				!overlaps(spans, tokens[j+1].Start, tokens[j+1].End) {
				j += 2
				continue
			}
			break
		}

		if sp, ok := d.classify(s, tokens, i, j); ok {
			spans = append(spans, sp)
		}
		i = j
	}

	sort.Slice(spans, func(a, b int) bool { return spans[a].start < spans[b].start })
	return spans
}

// matchPhrase finds the longest gazetteer phrase starting at token i.
func (d *EntityDetector) matchPhrase(s string, tokens []textproc.Token, i int, spans []span) (int, domain.EntityLabel) {
	for n := d.maxPhrase; n >= 1; n-- {
		if i+n > len(tokens) {
			continue
		}
		last := tokens[i+n-1]
		if overlaps(spans, tokens[i].Start, last.End) {
			continue
		}
		if label, ok := d.phrases[s[tokens[i].Start:last.End]]; ok {
			return n, label
		}
	}
	return 0, ""
}

// classify labels the capitalised run tokens[i:j], trimming leading
// determiners, sentence-initial function words and titles.
func (d *EntityDetector) classify(s string, tokens []textproc.Token, i, j int) (span, bool) {
	start := i
	titled := false
	for start < j {
		word := tokens[start].Text
		if _, ok := determiners[word]; ok {
			start++
			continue
		}
		if start == 0 && textproc.IsStopword(word) {
			start++
			continue
		}
		if _, ok := d.titles[word]; ok && start+1 < j {
			titled = true
			start++
			continue
		}
		break
	}
	if start >= j {
		return span{}, false
	}

	run := tokens[start:j]
	text := s[run[0].Start:run[len(run)-1].End]
	mk := func(label domain.EntityLabel) (span, bool) {
		return span{start: run[0].Start, end: run[len(run)-1].End, label: label}, true
	}

	if label, ok := d.phrases[text]; ok {
		return mk(label)
	}
	if len(run) == 1 {
		if _, ok := d.ignore[text]; ok {
			return span{}, false
		}
	}
	if titled {
		return mk(domain.LabelPerson)
	}

	first, last := run[0].Text, run[len(run)-1].Text
	if len(run) > 1 {
		if _, ok := d.eventHeads[last]; ok {
			return mk(domain.LabelEvent)
		}
	}
	if _, ok := d.orgHeads[last]; ok && len(run) > 1 {
		return mk(domain.LabelOrg)
	}
	if _, ok := d.orgLeads[first]; ok && len(run) > 1 {
		return mk(domain.LabelOrg)
	}
	if len(run) > 1 {
		if _, ok := d.locHeads[last]; ok {
			return mk(domain.LabelGPE)
		}
		if _, ok := d.locLeads[first]; ok {
			return mk(domain.LabelGPE)
		}
	}
	if len(run) == 1 && acronym(text) {
		return mk(domain.LabelOrg)
	}
	if _, ok := d.firstNames[first]; ok {
		return mk(domain.LabelPerson)
	}

	prev := ""
	if start > 0 {
		if _, ok := d.titles[tokens[start-1].Text]; ok {
			return mk(domain.LabelPerson)
		}
		prev = strings.ToLower(tokens[start-1].Text)
	}
	if _, ok := locativePrepositions[prev]; ok {
		return mk(domain.LabelGPE)
	}
	if prev == "by" {
		return mk(domain.LabelPerson)
	}

	if len(run) > 1 {
		for _, tok := range run {
			if tok.Text == "of" {
				return mk(domain.LabelOrg)
			}
		}
		if len(run) <= 3 && start > 0 {
			return mk(domain.LabelPerson)
		}
	}
	return span{}, false
}

// standaloneYear rejects four-digit matches that are part of a larger number,
// an amount or a percentage.
func standaloneYear(s string, start, end int) bool {
	if start > 0 {
		switch s[start-1] {
		case '.', ',', '$', '-', '/':
			return false
		}
	}
	if end < len(s) {
		switch s[end] {
		case '%', '/':
			return false
		case '.', ',':
			if end+1 < len(s) && s[end+1] >= '0' && s[end+1] <= '9' {
				return false
			}
		}
	}
	return true
}

func overlaps(spans []span, start, end int) bool {
	for _, sp := range spans {
		if start < sp.end && sp.start < end {
			return true
		}
	}
	return false
}

// adjacent reports whether only spaces separate a and b.
func adjacent(s string, a, b textproc.Token) bool {
	return strings.TrimLeft(s[a.End:b.Start], " ") == ""
}

func capitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func acronym(word string) bool {
	if utf8.RuneCountInString(word) < 2 {
		return false
	}
	letters := 0
	for _, r := range word {
		switch {
		case unicode.IsUpper(r):
			letters++
		case unicode.IsDigit(r):
		default:
			return false
		}
	}
	return letters >= 2
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
