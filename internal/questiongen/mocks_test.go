package questiongen

import (
	"github.com/stretchr/testify/mock"
)

// MockSimilarityModel is a mock type for the domain.SimilarityModel interface
type MockSimilarityModel struct {
	mock.Mock
}

func (m *MockSimilarityModel) MostSimilar(term string, n int) []string {
	args := m.Called(term, n)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}
