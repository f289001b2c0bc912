// Package export renders quizzes as markdown, CSV, plain text and PDF and
// writes the artifacts to a filesystem.
package export

import (
	"quiz-forge/internal/domain"
	"strings"
)

// Format is an export target.
type Format string

const (
	FormatTabular   Format = "tabular"
	FormatPlainText Format = "plain-text"
	FormatDocument  Format = "document"
	FormatNative    Format = "native"
)

// FileStem is the base name of every exported artifact.
const FileStem = "generated_quiz"

var formatAliases = map[string]Format{
	"tabular":    FormatTabular,
	"csv":        FormatTabular,
	"plain-text": FormatPlainText,
	"txt":        FormatPlainText,
	"text":       FormatPlainText,
	"document":   FormatDocument,
	"pdf":        FormatDocument,
	"native":     FormatNative,
	"md":         FormatNative,
	"markdown":   FormatNative,
}

// ParseFormat maps a format tag or file extension to a Format. Unrecognised
// values select FormatNative.
func ParseFormat(s string) Format {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return FormatNative
}

// LookupFormat is ParseFormat without the fallback.
func LookupFormat(s string) (Format, bool) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTabular:
		return "csv"
	case FormatPlainText:
		return "txt"
	case FormatDocument:
		return "pdf"
	default:
		return "md"
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatTabular:
		return "text/csv; charset=utf-8"
	case FormatPlainText:
		return "text/plain; charset=utf-8"
	case FormatDocument:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// FileName returns the artifact name for the format, e.g. generated_quiz.csv.
func (f Format) FileName() string {
	return FileStem + "." + f.Extension()
}

// Group is a run of questions of one type with their display numbers.
type Group struct {
	Type      domain.QuestionType
	Questions []Numbered
}

// Numbered pairs a question with its 1-based display number.
type Numbered struct {
	Number   int
	Question domain.Question
}

// GroupByType buckets questions by type, groups ordered by first appearance.
// Numbers run across groups in display order.
func GroupByType(questions []domain.Question) []Group {
	var groups []Group
	pos := make(map[domain.QuestionType]int)
	for _, q := range questions {
		i, ok := pos[q.Type]
		if !ok {
			i = len(groups)
			pos[q.Type] = i
			groups = append(groups, Group{Type: q.Type})
		}
		groups[i].Questions = append(groups[i].Questions, Numbered{Question: q})
	}

	n := 1
	for gi := range groups {
		for qi := range groups[gi].Questions {
			groups[gi].Questions[qi].Number = n
			n++
		}
	}
	return groups
}
