package main

import (
	"quiz-forge/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	opts, paths, err := parseFlags([]string{"-n", "7", "-t", "mcq,t/f", "--shuffle", "-f", "csv", "a.txt", "docs"})
	require.NoError(t, err)
	assert.Equal(t, 7, opts.count)
	assert.Equal(t, []string{"mcq", "t/f"}, opts.types)
	assert.True(t, opts.shuffle)
	assert.False(t, opts.analyze)
	assert.Equal(t, "csv", opts.format)
	assert.Equal(t, []string{"a.txt", "docs"}, paths)
}

func TestParseFlags_NoInput(t *testing.T) {
	_, _, err := parseFlags([]string{"-n", "3"})
	assert.Error(t, err)
}

func TestParseTypes(t *testing.T) {
	types, err := parseTypes([]string{"Fill_Blank", "topic"})
	require.NoError(t, err)
	assert.Equal(t, []domain.QuestionType{domain.TypeFillBlank, domain.TypeTopic}, types)

	_, err = parseTypes([]string{"essay"})
	assert.Error(t, err)
}
