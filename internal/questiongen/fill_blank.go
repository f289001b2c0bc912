package questiongen

import "quiz-forge/internal/domain"

// FillBlank blanks out the first whole-word occurrence of each keyword.
type FillBlank struct{}

func (FillBlank) Type() domain.QuestionType { return domain.TypeFillBlank }

func (FillBlank) Synthesize(c *Corpus, n int, used SentenceSet) []domain.Question {
	keywords := c.Keywords()
	if len(keywords) == 0 {
		return nil
	}
	sentences := c.Sentences()

	var out []domain.Question
	for _, kw := range keywords {
		if len(out) >= n {
			break
		}
		re := wholeWord(kw.Term)
		i := firstUnused(sentences, used, re.MatchString)
		if i < 0 {
			continue
		}
		loc := re.FindStringIndex(sentences[i])
		out = append(out, domain.Question{
			Text:   sentences[i][:loc[0]] + Blank + sentences[i][loc[1]:],
			Answer: kw.Term,
			Type:   domain.TypeFillBlank,
		})
		used.Mark(i)
	}
	return out
}
