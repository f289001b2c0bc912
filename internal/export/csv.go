package export

import (
	"encoding/csv"
	"io"
	"quiz-forge/internal/domain"
	"strconv"
	"strings"
)

var csvHeader = []string{"Question Number", "Type", "Question", "Answer", "Options"}

// WriteCSV writes one row per question in quiz order. Options are joined with " | ".
func WriteCSV(w io.Writer, questions []domain.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i, q := range questions {
		row := []string{
			strconv.Itoa(i + 1),
			string(q.Type),
			q.Text,
			q.Answer,
			strings.Join(q.Options, " | "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
