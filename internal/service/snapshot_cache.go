package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quiz-forge/internal/cache"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"time"

	"go.uber.org/zap"
)

// ErrSnapshotNotFound is returned when a session has no published snapshot.
var ErrSnapshotNotFound = errors.New("quiz snapshot not found in cache")

const (
	fieldRendered  = "rendered"
	fieldQuestions = "questions"
	fieldTypes     = "types"
	fieldUpdatedAt = "updated_at"
)

// SnapshotCache publishes the latest rendering of each session to a shared
// hash so other readers can display it without touching the session.
type SnapshotCache interface {
	Publish(ctx context.Context, snapshot *dto.QuizSnapshot) error
	Fetch(ctx context.Context, sessionID string) (*dto.QuizSnapshot, error)
	Rendered(ctx context.Context, sessionID string) (string, error)
	Evict(ctx context.Context, sessionID string) error
}

type snapshotCacheImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSnapshotCache returns a no-op cache when c is nil.
func NewSnapshotCache(c domain.Cache, ttl time.Duration) SnapshotCache {
	if c == nil {
		logger.Get().Warn("SnapshotCache initialized with nil cache. Snapshots are disabled.")
		return &noopSnapshotCache{}
	}
	return &snapshotCacheImpl{cache: c, ttl: ttl}
}

// NewQuizSnapshot captures the aggregator's current state for sessionID.
func NewQuizSnapshot(sessionID string, a *QuizAggregator) *dto.QuizSnapshot {
	types := make([]string, 0, len(a.SelectedTypes()))
	for _, t := range a.SelectedTypes() {
		types = append(types, string(t))
	}
	return &dto.QuizSnapshot{
		SessionID: sessionID,
		Rendered:  a.Rendered(),
		Questions: dto.NewQuestionResponses(a.Questions()),
		Types:     types,
		UpdatedAt: time.Now().UTC(),
	}
}

func (s *snapshotCacheImpl) Publish(ctx context.Context, snapshot *dto.QuizSnapshot) error {
	if snapshot == nil || snapshot.SessionID == "" {
		return domain.NewInvalidInputError("cannot publish a snapshot without a session")
	}

	questions, err := json.Marshal(snapshot.Questions)
	if err != nil {
		return domain.NewInternalError("failed to marshal snapshot questions", err)
	}
	types, err := json.Marshal(snapshot.Types)
	if err != nil {
		return domain.NewInternalError("failed to marshal snapshot types", err)
	}

	key := cache.SnapshotKey(snapshot.SessionID)
	fields := []struct{ name, value string }{
		{fieldRendered, snapshot.Rendered},
		{fieldQuestions, string(questions)},
		{fieldTypes, string(types)},
		{fieldUpdatedAt, snapshot.UpdatedAt.Format(time.RFC3339Nano)},
	}
	for _, f := range fields {
		if err := s.cache.HSet(ctx, key, f.name, f.value); err != nil {
			logger.Get().Error("Failed to publish quiz snapshot", zap.Error(err), zap.String("key", key), zap.String("field", f.name))
			return domain.NewInternalError(fmt.Sprintf("failed to publish snapshot for key %s", key), err)
		}
	}
	if s.ttl > 0 {
		if err := s.cache.Expire(ctx, key, s.ttl); err != nil {
			logger.Get().Error("Failed to set snapshot TTL", zap.Error(err), zap.String("key", key))
			return domain.NewInternalError(fmt.Sprintf("failed to set TTL for key %s", key), err)
		}
	}

	logger.Get().Debug("Published quiz snapshot",
		zap.String("key", key),
		zap.Int("questions", len(snapshot.Questions)),
		zap.Duration("ttl", s.ttl))
	return nil
}

func (s *snapshotCacheImpl) Fetch(ctx context.Context, sessionID string) (*dto.QuizSnapshot, error) {
	key := cache.SnapshotKey(sessionID)
	fields, err := s.cache.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Quiz snapshot cache miss", zap.String("key", key))
			return nil, ErrSnapshotNotFound
		}
		logger.Get().Error("Failed to fetch quiz snapshot", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to fetch snapshot for key %s", key), err)
	}
	if len(fields) == 0 {
		return nil, ErrSnapshotNotFound
	}

	snapshot := &dto.QuizSnapshot{SessionID: sessionID, Rendered: fields[fieldRendered]}
	if raw := fields[fieldQuestions]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &snapshot.Questions); err != nil {
			return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal snapshot questions for key %s", key), err)
		}
	}
	if raw := fields[fieldTypes]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &snapshot.Types); err != nil {
			return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal snapshot types for key %s", key), err)
		}
	}
	if raw := fields[fieldUpdatedAt]; raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			snapshot.UpdatedAt = ts
		}
	}
	return snapshot, nil
}

func (s *snapshotCacheImpl) Rendered(ctx context.Context, sessionID string) (string, error) {
	key := cache.SnapshotKey(sessionID)
	rendered, err := s.cache.HGet(ctx, key, fieldRendered)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return "", ErrSnapshotNotFound
		}
		return "", domain.NewInternalError(fmt.Sprintf("failed to read rendering for key %s", key), err)
	}
	return rendered, nil
}

func (s *snapshotCacheImpl) Evict(ctx context.Context, sessionID string) error {
	key := cache.SnapshotKey(sessionID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to evict quiz snapshot", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to evict snapshot for key %s", key), err)
	}
	return nil
}

type noopSnapshotCache struct{}

func (noopSnapshotCache) Publish(ctx context.Context, snapshot *dto.QuizSnapshot) error {
	return nil
}

func (noopSnapshotCache) Fetch(ctx context.Context, sessionID string) (*dto.QuizSnapshot, error) {
	return nil, ErrSnapshotNotFound
}

func (noopSnapshotCache) Rendered(ctx context.Context, sessionID string) (string, error) {
	return "", ErrSnapshotNotFound
}

func (noopSnapshotCache) Evict(ctx context.Context, sessionID string) error {
	return nil
}
