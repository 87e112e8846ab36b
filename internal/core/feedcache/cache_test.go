package feedcache

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockBackend is a testify mock of Backend
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	body, _ := args.Get(0).([]byte)
	return body, args.Bool(1), args.Error(2)
}

func (m *mockBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockBackend) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func mustNewCache(t *testing.T, backend Backend, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(backend, ttl, nil)
	require.NoError(t, err)
	return c
}

func TestNew_NilBackend(t *testing.T) {
	_, err := New(nil, time.Minute, nil)
	assert.ErrorIs(t, err, ErrNilBackend)
}

func TestCache_PutThenGet(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), time.Minute)

	_, ok := c.Get(ctx, "index:a")
	assert.False(t, ok)

	c.Put(ctx, "index:a", []byte("<html>page 1</html>"))

	body, ok := c.Get(ctx, "index:a")
	require.True(t, ok)
	assert.Equal(t, "<html>page 1</html>", string(body))
}

func TestCache_PutOverwritesAndResetsAge(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), 150*time.Millisecond)

	c.Put(ctx, "k", []byte("first"))
	time.Sleep(100 * time.Millisecond)
	c.Put(ctx, "k", []byte("second"))
	time.Sleep(100 * time.Millisecond)

	// 200ms after the first write but only 100ms after the second
	body, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "second", string(body))
}

func TestCache_EntryExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), 50*time.Millisecond)

	c.Put(ctx, "k", []byte("page"))
	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry must read as a miss once its ttl has passed")
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	backend := new(mockBackend)
	c := mustNewCache(t, backend, 0)

	assert.False(t, c.Enabled())
	c.Put(ctx, "k", []byte("page"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	backend.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCache_NegativeTTLTreatedAsDisabled(t *testing.T) {
	c := mustNewCache(t, NewMemoryBackend(0), -time.Second)
	assert.False(t, c.Enabled())
	assert.Equal(t, time.Duration(0), c.TTL())
}

func TestCache_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), time.Minute)

	c.Clear(ctx) // empty cache

	c.Put(ctx, "a", []byte("1"))
	c.Put(ctx, "b", []byte("2"))
	c.Clear(ctx)
	c.Clear(ctx)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestCache_BackendFailureDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("connection refused")

	backend := new(mockBackend)
	backend.On("Get", mock.Anything, "k").Return(nil, false, errDown)
	backend.On("Set", mock.Anything, "k", []byte("page"), time.Minute).Return(errDown)
	backend.On("Clear", mock.Anything).Return(errDown)

	c := mustNewCache(t, backend, time.Minute)

	getErrors := testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultError))
	putErrors := testutil.ToFloat64(OperationsTotal.WithLabelValues("put", resultError))

	body, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Nil(t, body)

	assert.NotPanics(t, func() { c.Put(ctx, "k", []byte("page")) })
	assert.NotPanics(t, func() { c.Clear(ctx) })

	assert.Equal(t, getErrors+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultError)))
	assert.Equal(t, putErrors+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("put", resultError)))
	backend.AssertExpectations(t)
}

func TestCache_HitAndMissCounters(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), time.Minute)

	hits := testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultHit))
	misses := testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultMiss))

	c.Get(ctx, "counter-key")
	c.Put(ctx, "counter-key", []byte("x"))
	c.Get(ctx, "counter-key")
	c.Get(ctx, "counter-key")

	assert.Equal(t, hits+2, testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultHit)))
	assert.Equal(t, misses+1, testutil.ToFloat64(OperationsTotal.WithLabelValues("get", resultMiss)))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := mustNewCache(t, NewMemoryBackend(0), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("page-%d", i%4)
			want := []byte("rendered " + key)
			for j := 0; j < 200; j++ {
				c.Put(ctx, key, want)
				if body, ok := c.Get(ctx, key); ok {
					// same key always renders the same bytes, so any winner is acceptable
					assert.Equal(t, string(want), string(body))
				}
				if j%50 == 0 && i == 0 {
					c.Clear(ctx)
				}
			}
		}(i)
	}
	wg.Wait()
}

func TestKey(t *testing.T) {
	page1 := httptest.NewRequest("GET", "/?page=1", nil)
	page2 := httptest.NewRequest("GET", "/?page=2", nil)
	page1Again := httptest.NewRequest("GET", "/?page=1", nil)
	bare := httptest.NewRequest("GET", "/", nil)
	group := httptest.NewRequest("GET", "/group/cats/?page=1", nil)

	assert.NotEqual(t, Key("index", page1), Key("index", page2))
	assert.Equal(t, Key("index", page1), Key("index", page1Again))
	assert.NotEqual(t, Key("index", page1), Key("index", bare))
	assert.NotEqual(t, Key("index", page1), Key("index", group))
	assert.NotEqual(t, Key("index", page1), Key("api.index", page1))
	assert.Contains(t, Key("index", page1), "index:")
}
