package questiongen

import (
	"fmt"
	"quiz-forge/internal/domain"
	"strings"
)

const promptTerms = 3

// TopicQuestions asks which theme ties a topic's leading terms together.
type TopicQuestions struct{}

func (TopicQuestions) Type() domain.QuestionType { return domain.TypeTopic }

func (TopicQuestions) Synthesize(c *Corpus, n int, _ SentenceSet) []domain.Question {
	var out []domain.Question
	for _, topic := range c.Topics() {
		if len(out) >= n {
			break
		}
		if len(topic.Terms) == 0 {
			continue
		}
		head := topic.Terms
		if len(head) > promptTerms {
			head = head[:promptTerms]
		}
		out = append(out, domain.Question{
			Text:   fmt.Sprintf("What main topic is discussed related to these concepts: %s?", strings.Join(head, ", ")),
			Answer: "Topic involving: " + strings.Join(topic.Terms, ", "),
			Type:   domain.TypeTopic,
		})
	}
	return out
}
