package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringanalyzer/stringsvc/internal/database"
	"github.com/stringanalyzer/stringsvc/internal/models"
)

func newTestEngine(t *testing.T) (*Engine, database.Store) {
	t.Helper()
	store := database.NewMemoryStore()
	return NewEngine(NewAnalyzer(fixedClock{t: time.Unix(1700000000, 0)}), store), store
}

func seed(t *testing.T, e *Engine, vals ...string) {
	t.Helper()
	for _, v := range vals {
		_, err := e.Create(context.Background(), v)
		require.NoError(t, err, v)
	}
}

func TestEngine_Create(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, "madam")
	require.NoError(t, err)
	assert.Equal(t, Fingerprint("madam"), rec.ID)
	assert.True(t, rec.Properties.IsPalindrome)

	stored, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, stored)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), rec.CreatedAt, "records carry the engine analyzer's clock")
}

func TestEngine_CreateDuplicate(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, "hello")
	require.NoError(t, err)

	_, err = e.Create(ctx, "hello")
	assert.ErrorIs(t, err, models.ErrDuplicateKey)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEngine_CreateConcurrentDuplicates(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Create(ctx, "race"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, models.ErrDuplicateKey)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	n, _ := store.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestEngine_CreateInvalidInput(t *testing.T) {
	e, store := newTestEngine(t)

	for _, raw := range []interface{}{12345.0, nil, true, []interface{}{"a"}, map[string]interface{}{}} {
		_, err := e.Create(context.Background(), raw)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "%v", raw)
	}

	n, _ := store.Count(context.Background())
	assert.Zero(t, n)
}

func TestEngine_Get(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e, "wow")

	rec, err := e.Get(ctx, "wow")
	require.NoError(t, err)
	assert.Equal(t, "wow", rec.Value)

	_, err = e.Get(ctx, "WOW")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEngine_List(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e, "hello", "madam", "hello world")

	got, err := e.List(ctx, models.FilterCriteria{"word_count": "2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world"}, values(got))

	got, err = e.List(ctx, models.FilterCriteria{"is_palindrome": "true"})
	require.NoError(t, err)
	assert.Equal(t, []string{"madam"}, values(got))

	got, err = e.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "madam", "hello world"}, values(got))
}

func TestEngine_ListInvalidFilter(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.List(context.Background(), models.FilterCriteria{"min_length": "abc"})
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestEngine_ListNatural(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e, "madam", "racecar", "hello world", "a", "noon")

	result, err := e.ListNatural(ctx, "strings that are palindromic and longer than 4")
	require.NoError(t, err)
	assert.Equal(t, models.FilterCriteria{"is_palindrome": "true", "min_length": "5"}, result.Criteria)
	assert.Equal(t, []string{"madam", "racecar"}, values(result.Records))
	assert.Equal(t, "strings that are palindromic and longer than 4", result.Query)

	result, err = e.ListNatural(ctx, "single word palindromic strings")
	require.NoError(t, err)
	assert.Equal(t, []string{"madam", "racecar", "a", "noon"}, values(result.Records))

	_, err = e.ListNatural(ctx, "banana")
	assert.ErrorIs(t, err, models.ErrUnparseableQuery)

	_, err = e.ListNatural(ctx, "")
	assert.ErrorIs(t, err, models.ErrEmptyQuery)
}

func TestEngine_Delete(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e, "deleteMe", "keepMe")

	require.NoError(t, e.Delete(ctx, "deleteMe"))
	assert.ErrorIs(t, e.Delete(ctx, "deleteMe"), models.ErrNotFound)

	_, err := e.Get(ctx, "deleteMe")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The value can be inserted again once deleted.
	_, err = e.Create(ctx, "deleteMe")
	assert.NoError(t, err)

	n, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEngine_Reset(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()
	seed(t, e, "one", "two")

	require.NoError(t, e.Reset(ctx))

	n, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, e.Ping(ctx))
}
