package cache

import "strings"

const (
	GlobalKeyPrefix = "quizgen"

	// SessionService namespaces keys owned by the HTTP session layer.
	SessionService = "session"
	SnapshotObject = "snapshot"
)

// GenerateCacheKey builds "quizgen:<service>:<object>:<id>", appending the
// optional params joined by "_" as one more segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// SnapshotKey is the hash key holding a session's published quiz.
func SnapshotKey(sessionID string) string {
	return GenerateCacheKey(SessionService, SnapshotObject, sessionID)
}
