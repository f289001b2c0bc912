package export

import (
	"fmt"
	"io"
	"quiz-forge/internal/domain"

	"codeberg.org/go-pdf/fpdf"
)

const (
	pdfMargin      = 20.0
	pdfLineHeight  = 6.0
	pdfOptionInset = 8.0
)

var pdfHeadings = map[domain.QuestionType]string{
	domain.TypeFillBlank:   "Fill in the Blank Questions",
	domain.TypeMCQ:         "Multiple Choice Questions",
	domain.TypeTrueFalse:   "True/False Questions",
	domain.TypeShortAnswer: "Short Answer Questions",
	domain.TypeTopic:       "Topic Questions",
}

// WritePDF lays the quiz out as a Letter-size document grouped by question type.
func WritePDF(w io.Writer, questions []domain.Question) error {
	title := fmt.Sprintf("Generated Quiz (%d questions)", len(questions))

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("quiz-forge", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	for _, g := range GroupByType(questions) {
		heading, ok := pdfHeadings[g.Type]
		if !ok {
			heading = TypeTitle(g.Type) + " Questions"
		}
		pdf.SetFont("Helvetica", "B", 15)
		pdf.SetTextColor(52, 73, 94)
		pdf.CellFormat(0, 10, tr(heading), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		for _, nq := range g.Questions {
			q := nq.Question
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(0, pdfLineHeight, tr(fmt.Sprintf("Q%d. %s", nq.Number, q.Text)), "", "L", false)

			if len(q.Options) > 0 {
				pdf.SetFont("Helvetica", "", 11)
				for _, opt := range q.Options {
					pdf.SetX(pdfMargin + pdfOptionInset)
					pdf.MultiCell(0, pdfLineHeight, tr("- "+opt), "", "L", false)
				}
			}

			pdf.SetFont("Helvetica", "I", 11)
			pdf.SetTextColor(39, 174, 96)
			pdf.MultiCell(0, pdfLineHeight, tr("Answer: "+q.Answer), "", "L", false)
			pdf.Ln(4)
		}
		pdf.Ln(4)
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}
