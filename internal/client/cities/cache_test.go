package cities

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu        sync.Mutex
	cached    []string
	hit       bool
	loadErr   error
	saveErr   error
	saved     []string
	expiresAt time.Time
	saves     int
}

func (s *fakeStore) Load(_ context.Context, _ time.Time) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached, s.hit, s.loadErr
}

func (s *fakeStore) Save(_ context.Context, cities []string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append([]string(nil), cities...)
	s.expiresAt = expiresAt
	return nil
}

func (s *fakeStore) Clear(context.Context) error { return nil }

type fakeFetcher struct {
	list  []string
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeFetcher) Cities(ctx context.Context) ([]string, error) {
	f.calls++
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.list, f.err
}

type fakeLocator struct {
	city string
	err  error
	done chan struct{}
}

func (l *fakeLocator) City(context.Context) (string, error) {
	if l.done != nil {
		defer close(l.done)
	}
	return l.city, l.err
}

func fixedClock() time.Time { return t0 }

func TestCache_FreshInstallPromotesDetectedCity(t *testing.T) {
	store := &fakeStore{}
	fetcher := &fakeFetcher{list: []string{"Vancouver", "toronto", "MONTREAL"}}
	c := New(store, fetcher, &fakeLocator{city: "Toronto"}, WithClock(fixedClock))

	c.Load(context.Background())
	assert.Empty(t, c.Cities())

	c.Refresh(context.Background())

	assert.Equal(t, []string{"toronto", "montreal", "vancouver"}, c.Cities())
	assert.Equal(t, []string{"montreal", "toronto", "vancouver"}, store.saved, "the sorted list is persisted")
	assert.Equal(t, t0.Add(DefaultTTL), store.expiresAt)
}

func TestCache_UnsupportedCityIsNotPromoted(t *testing.T) {
	fetcher := &fakeFetcher{list: []string{"Vancouver", "toronto", "MONTREAL"}}
	c := New(&fakeStore{}, fetcher, &fakeLocator{city: "Berlin"})

	c.Refresh(context.Background())

	assert.Equal(t, []string{"montreal", "toronto", "vancouver"}, c.Cities())
}

func TestCache_FetchFailureKeepsCachedListWithoutPromotion(t *testing.T) {
	store := &fakeStore{cached: []string{"toronto", "Calgary"}, hit: true}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	c := New(store, fetcher, &fakeLocator{city: "toronto"})

	c.Load(context.Background())
	assert.Equal(t, []string{"Calgary", "toronto"}, c.Cities())

	c.Refresh(context.Background())

	assert.Equal(t, []string{"Calgary", "toronto"}, c.Cities(), "membership is never checked against the cached list")
	assert.Zero(t, store.saves)
}

func TestCache_EmptyFetchKeepsCachedList(t *testing.T) {
	store := &fakeStore{cached: []string{"ottawa"}, hit: true}
	c := New(store, &fakeFetcher{list: []string{}}, &fakeLocator{city: "ottawa"})

	c.Load(context.Background())
	c.Refresh(context.Background())

	assert.Equal(t, []string{"ottawa"}, c.Cities())
	assert.Zero(t, store.saves)
}

func TestCache_PromotionWaitsForFetch(t *testing.T) {
	gate := make(chan struct{})
	located := make(chan struct{})
	fetcher := &fakeFetcher{list: []string{"montreal", "toronto"}, gate: gate}
	c := New(&fakeStore{}, fetcher, &fakeLocator{city: "toronto", done: located})

	done := make(chan struct{})
	go func() {
		c.Refresh(context.Background())
		close(done)
	}()

	<-located
	assert.Empty(t, c.Cities())
	close(gate)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}
	assert.Equal(t, []string{"toronto", "montreal"}, c.Cities())
}

func TestCache_GeolocationFailureIgnored(t *testing.T) {
	c := New(&fakeStore{}, &fakeFetcher{list: []string{"b", "a"}}, &fakeLocator{err: errors.New("rate limited")})

	c.Refresh(context.Background())

	assert.Equal(t, []string{"a", "b"}, c.Cities())
}

func TestCache_NilLocator(t *testing.T) {
	c := New(&fakeStore{}, &fakeFetcher{list: []string{"b", "a"}}, nil)

	c.Refresh(context.Background())

	assert.Equal(t, []string{"a", "b"}, c.Cities())
}

func TestCache_SaveFailureSwallowed(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	c := New(store, &fakeFetcher{list: []string{"toronto"}}, &fakeLocator{city: "toronto"})

	c.Refresh(context.Background())

	assert.Equal(t, []string{"toronto"}, c.Cities())
	assert.Equal(t, 1, store.saves)
}

func TestCache_CustomTTL(t *testing.T) {
	store := &fakeStore{}
	c := New(store, &fakeFetcher{list: []string{"toronto"}}, nil, WithClock(fixedClock), WithTTL(time.Hour))

	c.Refresh(context.Background())

	assert.Equal(t, t0.Add(time.Hour), store.expiresAt)
}

func TestCache_LoadErrorStartsEmpty(t *testing.T) {
	c := New(&fakeStore{loadErr: errors.New("no such table: metadata")}, &fakeFetcher{}, nil)

	c.Load(context.Background())

	assert.Empty(t, c.Cities())
}

func TestCache_SnapshotIsCopy(t *testing.T) {
	c := New(&fakeStore{}, &fakeFetcher{list: []string{"a", "b"}}, nil)
	c.Refresh(context.Background())

	snap := c.Cities()
	snap[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, c.Cities())
}

func TestCache_Subscribe(t *testing.T) {
	c := New(&fakeStore{}, &fakeFetcher{list: []string{"Vancouver", "toronto"}}, &fakeLocator{city: "vancouver"})

	ch, stop := c.Subscribe()
	c.Refresh(context.Background())

	select {
	case got := <-ch:
		assert.Equal(t, []string{"vancouver", "toronto"}, got, "a slow reader only sees the newest list")
	default:
		t.Fatal("no update delivered")
	}

	stop()
	stop()
	_, open := <-ch
	require.False(t, open)

	c.Refresh(context.Background())
}

func TestCache_ExpiredRecordSeedsEmptyList(t *testing.T) {
	db := setupDB(t)
	store := NewSQLiteStore(db)
	require.NoError(t, store.Save(context.Background(), []string{"calgary", "toronto"}, t0.Add(-time.Minute)))

	c := New(store, &fakeFetcher{}, nil, WithClock(fixedClock))
	c.Load(context.Background())

	assert.Empty(t, c.Cities())
	assert.Empty(t, keys(t, db), "stale record is discarded")
}
