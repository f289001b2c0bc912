package service

import (
	"context"
	"path/filepath"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestBatchService(t *testing.T, fs afero.Fs) BatchService {
	t.Helper()
	factory, err := NewAggregatorFactory(config.Default(), export.NewExporter(fs, "/out"))
	require.NoError(t, err)
	return NewBatchService(factory, zap.NewNop())
}

func TestBatchService_Run(t *testing.T) {
	fs := afero.NewMemMapFs()
	svc := newTestBatchService(t, fs)

	docs := []BatchDocument{
		{Name: "notes/python.txt", Text: pythonText},
		{Name: "curie.md", Text: richText},
		{Name: "empty.txt", Text: "   "},
		{Name: "other/python.txt", Text: pythonText},
	}

	results, err := svc.Run(context.Background(), docs, BatchOptions{
		NumQuestions: 2,
		Types:        []domain.QuestionType{domain.TypeFillBlank},
		Format:       export.FormatTabular,
		Shuffle:      true,
		Analyze:      true,
		Concurrency:  2,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "notes/python.txt", results[0].Name)
	assert.Equal(t, 2, results[0].Questions)
	assert.Equal(t, filepath.Join("/out", "python", "generated_quiz.csv"), results[0].Path)

	assert.NotEmpty(t, results[1].Path)
	assert.NoError(t, results[1].Err)

	assert.Empty(t, results[2].Path)
	assert.Equal(t, MsgNoText, results[2].Message)

	assert.Equal(t, filepath.Join("/out", "python-2", "generated_quiz.csv"), results[3].Path)

	for _, r := range []BatchResult{results[0], results[1], results[3]} {
		exists, err := afero.Exists(fs, r.Path)
		require.NoError(t, err)
		assert.True(t, exists, r.Path)
	}
}

func TestBatchService_Cancelled(t *testing.T) {
	svc := newTestBatchService(t, afero.NewMemMapFs())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Run(ctx, []BatchDocument{{Name: "a.txt", Text: pythonText}}, BatchOptions{
		NumQuestions: 1,
		Types:        []domain.QuestionType{domain.TypeFillBlank},
		Format:       export.FormatNative,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUniqueStems(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "repeats and empty names",
			names: []string{"a/intro.txt", "b/intro.md", "notes", ""},
			want:  []string{"intro", "intro-2", "notes", "document-4"},
		},
		{
			name:  "suffixed name already present",
			names: []string{"a.txt", "a-2.txt", "a.txt"},
			want:  []string{"a", "a-2", "a-3"},
		},
		{
			name:  "suffixed name arrives later",
			names: []string{"a.txt", "a.md", "a-2.txt"},
			want:  []string{"a", "a-2", "a-2-2"},
		},
		{
			name:  "generated name collides with a file",
			names: []string{"document-2.txt", ""},
			want:  []string{"document-2", "document-2-2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([]BatchDocument, len(tt.names))
			for i, n := range tt.names {
				docs[i] = BatchDocument{Name: n}
			}
			stems := uniqueStems(docs)
			assert.Equal(t, tt.want, stems)

			seen := make(map[string]bool, len(stems))
			for _, s := range stems {
				assert.False(t, seen[s], "duplicate stem %q", s)
				seen[s] = true
			}
		})
	}
}

func TestReadDocuments(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/docs/b.txt", []byte("second"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/a.md", []byte("first"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/docs/image.png", []byte{0x89}, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/single.text", []byte("third"), 0o644))

	docs, err := ReadDocuments(fs, []string{"/docs", "/single.text"})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "/docs/a.md", docs[0].Name)
	assert.Equal(t, "first", docs[0].Text)
	assert.Equal(t, "/docs/b.txt", docs[1].Name)
	assert.Equal(t, "third", docs[2].Text)

	_, err = ReadDocuments(fs, []string{"/missing"})
	assert.Error(t, err)
}
