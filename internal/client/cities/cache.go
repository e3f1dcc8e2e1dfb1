// Package cities keeps the list of supported cities: seeded from a
// time-boxed local cache, refreshed from the backend, and personalized by
// moving the user's IP-detected city to the front.
package cities

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tealives/tealives-client/internal/logging"
)

// DefaultTTL is how long a fetched list may be served from the local cache.
const DefaultTTL = 7 * 24 * time.Hour

// Fetcher returns the authoritative list from the backend.
type Fetcher interface {
	Cities(ctx context.Context) ([]string, error)
}

// Locator detects the user's city. Failures are never fatal.
type Locator interface {
	City(ctx context.Context) (string, error)
}

// Cache is a stale-while-revalidate view of the city list.
//
// Load seeds it synchronously from the Store; Refresh fetches the
// authoritative list and the detected city concurrently. Readers use Cities
// for a snapshot or Subscribe to follow changes. Cache is safe for
// concurrent use.
type Cache struct {
	store   Store
	fetcher Fetcher
	locator Locator
	ttl     time.Duration
	now     func() time.Time
	log     logging.Logger

	mu     sync.Mutex
	cities []string
	subs   map[int]chan []string
	nextID int
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New builds an empty cache. locator may be nil to disable promotion.
func New(store Store, fetcher Fetcher, locator Locator, opts ...Option) *Cache {
	c := &Cache{
		store:   store,
		fetcher: fetcher,
		locator: locator,
		ttl:     DefaultTTL,
		now:     time.Now,
		log:     logging.NewDiscardLogger(),
		cities:  []string{},
		subs:    make(map[int]chan []string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load seeds the list from the local cache record. A missing, malformed or
// expired record leaves the list empty.
func (c *Cache) Load(ctx context.Context) {
	cached, ok, err := c.store.Load(ctx, c.now())
	if err != nil {
		c.log.Warn(ctx, "reading city cache failed", "error", err)
		return
	}
	if !ok {
		c.log.Debug(ctx, "city cache miss")
		return
	}

	list := slices.Clone(cached)
	Sort(list)
	c.set(list)
	c.log.Debug(ctx, "city cache hit", "count", len(list))
}

// Refresh fetches the authoritative list and the user's city concurrently
// and returns once both lookups have finished. Errors are logged only.
//
// The detected city is promoted only if it belongs to the list fetched by
// this call; the promotion waits for that fetch to finish, whichever lookup
// completes first.
func (c *Cache) Refresh(ctx context.Context) {
	var (
		authoritative []string
		ready         = make(chan struct{})
		g             errgroup.Group
	)

	g.Go(func() error {
		authoritative = c.fetch(ctx)
		close(ready)

		if authoritative != nil {
			c.persist(ctx, authoritative)
		}
		return nil
	})

	if c.locator != nil {
		g.Go(func() error {
			city, err := c.locator.City(ctx)
			if err != nil {
				c.log.Debug(ctx, "geolocation failed", "error", err)
				return nil
			}
			city = strings.ToLower(strings.TrimSpace(city))

			select {
			case <-ready:
			case <-ctx.Done():
				return nil
			}

			if !slices.Contains(authoritative, city) {
				c.log.Debug(ctx, "detected city not supported", "city", city)
				return nil
			}
			c.promote(city)
			return nil
		})
	}

	_ = g.Wait()
}

// fetch replaces the list with the backend's and returns it, or returns nil
// and keeps the current list on failure or an empty answer.
func (c *Cache) fetch(ctx context.Context) []string {
	fetched, err := c.fetcher.Cities(ctx)
	if err != nil {
		c.log.Warn(ctx, "fetching cities failed", "error", err)
		return nil
	}

	list := Normalize(fetched)
	if len(list) == 0 {
		c.log.Warn(ctx, "backend returned no cities")
		return nil
	}

	c.set(slices.Clone(list))
	return list
}

func (c *Cache) persist(ctx context.Context, list []string) {
	if err := c.store.Save(ctx, list, c.now().Add(c.ttl)); err != nil {
		c.log.Warn(ctx, "writing city cache failed", "error", err)
	}
}

// Cities returns a snapshot of the current list.
func (c *Cache) Cities() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cities)
}

// Subscribe returns a channel that receives the latest list after every
// change, and a func to stop. A slow reader only sees the newest list.
func (c *Cache) Subscribe() (<-chan []string, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan []string, 1)
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

func (c *Cache) set(list []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cities = list
	c.notifyLocked()
}

func (c *Cache) promote(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cities = Promote(c.cities, city)
	c.notifyLocked()
}

// notifyLocked must be called with c.mu held; it is the only sender on the
// subscriber channels, so the send after draining never blocks.
func (c *Cache) notifyLocked() {
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- slices.Clone(c.cities)
	}
}
