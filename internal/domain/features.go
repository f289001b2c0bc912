package domain

// Keyword is a ranked salient term.
type Keyword struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Topic is a latent theme, its terms ordered by weight descending.
type Topic struct {
	Terms []string `json:"terms"`
}

// EntityLabel is the category tag of a named entity.
type EntityLabel string

const (
	LabelPerson  EntityLabel = "PERSON"
	LabelOrg     EntityLabel = "ORG"
	LabelGPE     EntityLabel = "GPE"
	LabelDate    EntityLabel = "DATE"
	LabelEvent   EntityLabel = "EVENT"
	LabelProduct EntityLabel = "PRODUCT"
)

var labelCategories = map[EntityLabel]string{
	LabelPerson:  "person",
	LabelOrg:     "organization",
	LabelGPE:     "location",
	LabelDate:    "date",
	LabelEvent:   "event",
	LabelProduct: "product",
}

// Category returns the human-readable category of the label.
func (l EntityLabel) Category() string {
	if c, ok := labelCategories[l]; ok {
		return c
	}
	return "entity"
}

// Accepted reports whether the label belongs to the recognized set.
func (l EntityLabel) Accepted() bool {
	_, ok := labelCategories[l]
	return ok
}

// Entity is a named-entity mention. Repeated mentions are separate entities.
type Entity struct {
	Text  string      `json:"text"`
	Label EntityLabel `json:"label"`
}

// EntityRecognizer detects named entities in raw text, in text order.
type EntityRecognizer interface {
	Recognize(text string) []Entity
}

// SimilarityModel answers nearest-neighbour queries over a trained vocabulary.
type SimilarityModel interface {
	// MostSimilar returns up to n known terms closest to term. Unknown terms yield nothing.
	MostSimilar(term string, n int) []string
}
