package session

import (
	"errors"
	"quiz-forge/internal/config"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/export"
	"quiz-forge/internal/service"
	"quiz-forge/internal/util"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	factory, err := service.NewAggregatorFactory(config.Default(), export.NewExporter(afero.NewMemMapFs(), "/out"))
	require.NoError(t, err)
	return NewStore(factory.ForSession, ttl)
}

func TestStore_CreateAndDo(t *testing.T) {
	store := newTestStore(t, time.Hour)

	id := store.Create()
	assert.True(t, util.IsULID(id))
	assert.Equal(t, 1, store.Len())

	err := store.Do(id, func(a *service.QuizAggregator) error {
		r := a.Generate("Guido created Python in 1991. Python is used for data science.", 2,
			[]domain.QuestionType{domain.TypeFillBlank})
		assert.True(t, r.Actionable)
		return nil
	})
	require.NoError(t, err)

	err = store.Do(id, func(a *service.QuizAggregator) error {
		assert.Len(t, a.Questions(), 2)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := newTestStore(t, time.Hour)
	first, second := store.Create(), store.Create()
	assert.NotEqual(t, first, second)

	require.NoError(t, store.Do(first, func(a *service.QuizAggregator) error {
		a.Generate("Guido created Python in 1991. Python is used for data science.", 1,
			[]domain.QuestionType{domain.TypeFillBlank})
		return nil
	}))
	require.NoError(t, store.Do(second, func(a *service.QuizAggregator) error {
		assert.Empty(t, a.Questions())
		return nil
	}))
}

func TestStore_UnknownSession(t *testing.T) {
	store := newTestStore(t, time.Hour)

	err := store.Do("missing", func(a *service.QuizAggregator) error { return nil })
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeSessionNotFound, domainErr.Code)
}

func TestStore_DoPropagatesError(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()
	boom := errors.New("boom")

	assert.ErrorIs(t, store.Do(id, func(a *service.QuizAggregator) error { return boom }), boom)
}

func TestStore_DeleteNotifies(t *testing.T) {
	store := newTestStore(t, time.Hour)
	var evicted []string
	store.OnEvict(func(id string) { evicted = append(evicted, id) })

	id := store.Create()
	assert.True(t, store.Delete(id))
	assert.False(t, store.Delete(id))
	assert.Equal(t, []string{id}, evicted)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Sweep(t *testing.T) {
	store := newTestStore(t, time.Minute)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale := store.Create()
	now = now.Add(50 * time.Second)
	fresh := store.Create()
	now = now.Add(20 * time.Second)

	var evicted []string
	store.OnEvict(func(id string) { evicted = append(evicted, id) })

	assert.Equal(t, []string{stale}, store.Sweep())
	assert.Equal(t, []string{stale}, evicted)
	assert.Equal(t, 1, store.Len())
	assert.NoError(t, store.Do(fresh, func(a *service.QuizAggregator) error { return nil }))
}

func TestStore_SweepDisabled(t *testing.T) {
	store := newTestStore(t, 0)
	store.Create()
	assert.Nil(t, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestStore_ConcurrentDo(t *testing.T) {
	store := newTestStore(t, time.Hour)
	id := store.Create()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Do(id, func(a *service.QuizAggregator) error {
				mu.Lock()
				active++
				if active > 1 {
					overlap = true
				}
				mu.Unlock()

				a.Shuffle()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.False(t, overlap)
}
