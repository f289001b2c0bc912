package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "session",
			objectType:  "snapshot",
			identifier:  "01HZX3J5Q0M7Y8K2V4W6N9P1RT",
			expectedKey: "quizgen:session:snapshot:01HZX3J5Q0M7Y8K2V4W6N9P1RT",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "session",
			objectType:  "snapshot",
			identifier:  "abc",
			paramsKey:   []string{},
			expectedKey: "quizgen:session:snapshot:abc",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "batch",
			objectType:  "export",
			identifier:  "run1",
			paramsKey:   []string{"csv", "shuffled"},
			expectedKey: "quizgen:batch:export:run1:csv_shuffled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestSnapshotKey(t *testing.T) {
	assert.Equal(t, "quizgen:session:snapshot:s1", SnapshotKey("s1"))
}
