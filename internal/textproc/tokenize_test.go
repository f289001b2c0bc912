package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	assert.Equal(t,
		[]string{"Python's", "high-level", "design", "dates", "from", "1991"},
		Words("Python's high-level design dates from 1991!"))
	assert.Empty(t, Words("... --- !!!"))
}

func TestTokens(t *testing.T) {
	tokens := Tokens("Hi, Ada Lovelace.")
	assert.Equal(t, []Token{
		{Text: "Hi", Start: 0, End: 2},
		{Text: "Ada", Start: 4, End: 7},
		{Text: "Lovelace", Start: 8, End: 16},
	}, tokens)
}

func TestTerms(t *testing.T) {
	assert.Equal(t,
		[]string{"guido", "created", "python", "1991"},
		Terms("Guido created Python in 1991. A"))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("between"))
	assert.False(t, IsStopword("python"))

	set := Stopwords()
	delete(set, "the")
	assert.True(t, IsStopword("the"), "returned set is a copy")
}
