package extractor

import (
	"math"
	"quiz-forge/internal/textproc"
	"sort"
)

// termMatrix is a TF-IDF weighted document-term matrix, one row per sentence.
type termMatrix struct {
	vocab []string
	rows  [][]float64
}

// buildTermMatrix keeps at most maxFeatures terms, chosen by corpus frequency,
// and orders the vocabulary alphabetically. Rows are L2-normalised.
func buildTermMatrix(sentences []string, maxFeatures int) *termMatrix {
	docs := make([][]string, len(sentences))
	corpusFreq := make(map[string]int)
	for i, s := range sentences {
		docs[i] = textproc.Terms(s)
		for _, term := range docs[i] {
			corpusFreq[term]++
		}
	}

	vocab := make([]string, 0, len(corpusFreq))
	for term := range corpusFreq {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	if maxFeatures > 0 && len(vocab) > maxFeatures {
		sort.SliceStable(vocab, func(i, j int) bool {
			return corpusFreq[vocab[i]] > corpusFreq[vocab[j]]
		})
		vocab = vocab[:maxFeatures]
		sort.Strings(vocab)
	}

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}

	counts := make([][]float64, len(docs))
	docFreq := make([]int, len(vocab))
	for d, terms := range docs {
		row := make([]float64, len(vocab))
		for _, term := range terms {
			if j, ok := index[term]; ok {
				if row[j] == 0 {
					docFreq[j]++
				}
				row[j]++
			}
		}
		counts[d] = row
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j, df := range docFreq {
		idf[j] = math.Log((1+n)/(1+float64(df))) + 1
	}

	for _, row := range counts {
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for j := range row {
			row[j] /= norm
		}
	}

	return &termMatrix{vocab: vocab, rows: counts}
}

// topIndices returns the indices of the n largest values, ties broken by index.
func topIndices(values []float64, n int) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}
