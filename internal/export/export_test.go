package export

import (
	"bytes"
	"path/filepath"
	"quiz-forge/internal/domain"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "Guido created _____ in 1991.", Answer: "python", Type: domain.TypeFillBlank},
		{
			Text:    "In the context: 'Guido created Python in 1991.'\nWhat is the person mentioned?",
			Answer:  "Guido",
			Type:    domain.TypeMCQ,
			Options: []string{"Option 1", "Guido", "Option 2", "Option 3"},
		},
		{Text: "Python is used for _____ science.", Answer: "data", Type: domain.TypeFillBlank},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"tabular":    FormatTabular,
		"CSV":        FormatTabular,
		"plain-text": FormatPlainText,
		"txt":        FormatPlainText,
		"document":   FormatDocument,
		"pdf":        FormatDocument,
		"native":     FormatNative,
		"md":         FormatNative,
		"docx":       FormatNative,
		"":           FormatNative,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseFormat(in), in)
	}
	assert.Equal(t, "generated_quiz.csv", FormatTabular.FileName())
	assert.Equal(t, "generated_quiz.txt", FormatPlainText.FileName())
	assert.Equal(t, "generated_quiz.pdf", FormatDocument.FileName())
	assert.Equal(t, "generated_quiz.md", FormatNative.FileName())
}

func TestGroupByType(t *testing.T) {
	groups := GroupByType(sampleQuestions())
	require.Len(t, groups, 2)

	assert.Equal(t, domain.TypeFillBlank, groups[0].Type)
	require.Len(t, groups[0].Questions, 2)
	assert.Equal(t, 1, groups[0].Questions[0].Number)
	assert.Equal(t, 2, groups[0].Questions[1].Number)
	assert.Equal(t, "data", groups[0].Questions[1].Question.Answer)

	assert.Equal(t, domain.TypeMCQ, groups[1].Type)
	assert.Equal(t, 3, groups[1].Questions[0].Number)
}

func TestRenderMarkdown(t *testing.T) {
	want := "\n\n# Generated Quiz (3 questions)\n\n" +
		"## Fill in the blank Questions\n\n" +
		"**Q1.** Guido created _____ in 1991.\n\n*Answer: python*\n\n" +
		"**Q2.** Python is used for _____ science.\n\n*Answer: data*\n\n" +
		"## Multiple choice Questions\n\n" +
		"**Q3.** In the context: 'Guido created Python in 1991.'\nWhat is the person mentioned?\n\n" +
		"\n- Option 1\n- Guido\n- Option 2\n- Option 3\n\n*Answer: Guido*\n\n"

	assert.Equal(t, want, RenderMarkdown(sampleQuestions()))
	assert.Equal(t, EmptyQuizMarkdown, RenderMarkdown(nil))
}

func TestWriteCSV(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, WriteCSV(&first, sampleQuestions()))
	require.NoError(t, WriteCSV(&second, sampleQuestions()))
	assert.Equal(t, first.Bytes(), second.Bytes(), "csv output is deterministic")

	lines := strings.Split(strings.TrimRight(first.String(), "\n"), "\n")
	assert.Equal(t, "Question Number,Type,Question,Answer,Options", lines[0])
	assert.Equal(t, "1,fill_blank,Guido created _____ in 1991.,python,", lines[1])
	assert.Contains(t, first.String(), "Option 1 | Guido | Option 2 | Option 3")
}

func TestWritePlainText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainText(&buf, sampleQuestions()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Generated Quiz (3 questions)\n"+strings.Repeat("=", 70)+"\n\n"))
	assert.Contains(t, out, "Q1. [Fill Blank]\nGuido created _____ in 1991.\n\nAnswer: python\n")
	assert.Contains(t, out, "Q2. [Mcq]\n")
	assert.Contains(t, out, "   - Guido\n")
	assert.Equal(t, 3, strings.Count(out, strings.Repeat("-", 70)))
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	questions := append(sampleQuestions(), domain.Question{
		Text: "Café society flourished.", Answer: "True", Type: domain.TypeTrueFalse,
	})
	require.NoError(t, WritePDF(&buf, questions))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExporter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	exporter := NewExporter(fs, "/out")

	for _, f := range []Format{FormatTabular, FormatPlainText, FormatDocument, FormatNative} {
		t.Run(string(f), func(t *testing.T) {
			path, err := exporter.Write(f, sampleQuestions(), "# rendered")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join("/out", f.FileName()), path)

			data, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}

	native, err := afero.ReadFile(fs, "/out/generated_quiz.md")
	require.NoError(t, err)
	assert.Equal(t, "# rendered", string(native))
}

func TestExporter_WriteFailure(t *testing.T) {
	exporter := NewExporter(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/out")
	_, err := exporter.Write(FormatTabular, sampleQuestions(), "")
	assert.Error(t, err)
}
