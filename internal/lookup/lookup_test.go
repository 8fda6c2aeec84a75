package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestStaticFuzzyMatch(t *testing.T) {
	provider := NewStatic()

	meta, err := provider.Lookup(context.Background(), "naruto shippuden")
	require.NoError(t, err)
	assert.Equal(t, 21, meta.SeasonCount)

	// The typed title may be a fragment of the known one.
	meta, err = provider.Lookup(context.Background(), "hunter x hun")
	require.NoError(t, err)
	assert.Equal(t, "Hunter x Hunter", meta.CanonicalTitle)

	_, err = provider.Lookup(context.Background(), "Some Show Nobody Knows")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = provider.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func jikanStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/anime", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			http.Error(w, "missing query", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"data":[{"mal_id":42,"title":"Vinland Saga","images":{"jpg":{"image_url":"https://img/42.jpg"}}}]}`)
	})
	mux.HandleFunc("/anime/42/relations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"relation":"Adaptation","entry":[{"title":"Vinland Saga (manga)"}]},
			{"relation":"Sequel","entry":[{"title":"Vinland Saga Season 2"}]}
		]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestJikanCountsSequels(t *testing.T) {
	srv := jikanStub(t)
	provider := NewJikanClient(srv.URL, quietLogger())

	meta, err := provider.Lookup(context.Background(), "Vinland Saga")
	require.NoError(t, err)
	assert.Equal(t, "Vinland Saga", meta.CanonicalTitle)
	assert.Equal(t, 2, meta.SeasonCount)
	assert.Equal(t, "https://img/42.jpg", meta.ImageURL)
}

func TestJikanNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	t.Cleanup(srv.Close)

	provider := NewJikanClient(srv.URL, quietLogger())
	_, err := provider.Lookup(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestJikanServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	provider := NewJikanClient(srv.URL, quietLogger())
	_, err := provider.Lookup(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrUnavailable)
}

type fixedProvider struct {
	meta  *Metadata
	err   error
	calls int
}

func (p *fixedProvider) Lookup(ctx context.Context, title string) (*Metadata, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.meta, nil
}

func TestChainPrefersFirstAnswer(t *testing.T) {
	first := &fixedProvider{meta: &Metadata{CanonicalTitle: "A", SeasonCount: 2}}
	second := &fixedProvider{meta: &Metadata{CanonicalTitle: "B", SeasonCount: 5}}

	meta, err := Chain{first, second}.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "A", meta.CanonicalTitle)
	assert.Zero(t, second.calls)
}

func TestChainFallsBack(t *testing.T) {
	first := &fixedProvider{err: ErrUnavailable}
	second := &fixedProvider{meta: &Metadata{CanonicalTitle: "B", SeasonCount: 5}}

	meta, err := Chain{first, second}.Lookup(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 5, meta.SeasonCount)

	_, err = Chain{first, &fixedProvider{err: ErrUnavailable}}.Lookup(context.Background(), "c")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCachedServesFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	next := &fixedProvider{meta: &Metadata{CanonicalTitle: "Bleach", SeasonCount: 16}}
	cached := NewCached(next, rdb, time.Hour, quietLogger())

	meta, err := cached.Lookup(context.Background(), "Bleach")
	require.NoError(t, err)
	assert.Equal(t, 16, meta.SeasonCount)
	assert.Equal(t, 1, next.calls)

	// Second lookup hits the cache, case-insensitively.
	meta, err = cached.Lookup(context.Background(), "bleach")
	require.NoError(t, err)
	assert.Equal(t, 16, meta.SeasonCount)
	assert.Equal(t, 1, next.calls)
}

func TestCachedDoesNotStoreFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	next := &fixedProvider{err: ErrUnavailable}
	cached := NewCached(next, rdb, time.Hour, quietLogger())

	_, err := cached.Lookup(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = cached.Lookup(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, next.calls)
}
