package export

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"quiz-forge/internal/domain"

	"github.com/spf13/afero"
)

// Exporter writes quiz artifacts into a directory of a filesystem.
type Exporter struct {
	fs  afero.Fs
	dir string
}

func NewExporter(fs afero.Fs, dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{fs: fs, dir: dir}
}

// Fs returns the filesystem artifacts are written to.
func (e *Exporter) Fs() afero.Fs {
	return e.fs
}

// Dir returns the directory artifacts are written to.
func (e *Exporter) Dir() string {
	return e.dir
}

// WithDir returns an Exporter writing to dir on the same filesystem.
func (e *Exporter) WithDir(dir string) *Exporter {
	return NewExporter(e.fs, dir)
}

// Clear removes the export directory and every artifact in it.
func (e *Exporter) Clear() error {
	return e.fs.RemoveAll(e.dir)
}

// Encode renders questions in format f. The native format is the cached
// markdown rendering passed in as rendered.
func Encode(w io.Writer, f Format, questions []domain.Question, rendered string) error {
	switch f {
	case FormatTabular:
		return WriteCSV(w, questions)
	case FormatPlainText:
		return WritePlainText(w, questions)
	case FormatDocument:
		return WritePDF(w, questions)
	default:
		_, err := io.WriteString(w, rendered)
		return err
	}
}

// Write encodes the quiz and stores it as <dir>/generated_quiz.<ext>,
// returning the artifact path. Nothing is written when encoding fails.
func (e *Exporter) Write(f Format, questions []domain.Question, rendered string) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, f, questions, rendered); err != nil {
		return "", fmt.Errorf("encode %s: %w", f, err)
	}

	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, f.FileName())
	if err := afero.WriteFile(e.fs, path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
