package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/nikbrunner/gallery/internal/model"
)

// DefaultStaleTime is how long a fetched result is served without refetching.
const DefaultStaleTime = 5 * time.Minute

// Queries caches fetch results by Key. A result younger than the stale time
// is served from memory (or the backing store); older results and misses run
// the fetch function, with concurrent callers for the same key sharing one
// call. Queries is safe for concurrent use.
type Queries struct {
	staleTime time.Duration
	store     Store
	logger    *log.Logger
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	entries  map[string]memEntry
	gen      uint64
	cleared  map[string]uint64 // prefix -> gen of its last Invalidate
	inflight map[string]flight
}

type flight struct {
	key Key
	n   int
}

type memEntry struct {
	key       Key
	value     any
	fetchedAt time.Time
}

// envelope is the persisted form of an entry.
type envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Data      json.RawMessage `json:"data"`
}

// QueryOption configures Queries.
type QueryOption func(*Queries)

// WithStore persists results in s in addition to memory.
func WithStore(s Store) QueryOption {
	return func(q *Queries) { q.store = s }
}

// WithStaleTime overrides DefaultStaleTime.
func WithStaleTime(d time.Duration) QueryOption {
	return func(q *Queries) { q.staleTime = d }
}

// WithLogger sets the logger for hits, misses and store failures.
func WithLogger(l *log.Logger) QueryOption {
	return func(q *Queries) { q.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) QueryOption {
	return func(q *Queries) { q.now = now }
}

// NewQueries creates an empty query cache.
func NewQueries(opts ...QueryOption) *Queries {
	q := &Queries{
		staleTime: DefaultStaleTime,
		store:     NewNullStore(),
		logger:    log.New(io.Discard),
		now:       time.Now,
		entries:   map[string]memEntry{},
		cleared:   map[string]uint64{},
		inflight:  map[string]flight{},
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Close closes the backing store.
func (q *Queries) Close() error {
	return q.store.Close()
}

// Fetch returns the cached value for key when fresh, otherwise it runs fn,
// caches a successful result and returns it. Errors are never cached.
func Fetch[T any](ctx context.Context, q *Queries, key Key, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := lookup[T](ctx, q, key); ok {
		return v, nil
	}

	name := key.String()
	res, err, shared := q.group.Do(name, func() (any, error) {
		since := q.begin(key)
		defer q.end(name)

		v, err := fn(ctx)
		if err != nil {
			return v, err
		}
		if !q.put(ctx, key, v, since) {
			q.logger.Debug("query invalidated while fetching", "key", name)
		}
		return v, nil
	})
	if shared {
		q.logger.Debug("query shared", "key", name)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query %s: cached %T, want %T", name, res, zero)
	}
	return v, nil
}

// Set stores v under key as freshly fetched.
func Set[T any](ctx context.Context, q *Queries, key Key, v T) {
	q.mu.Lock()
	since := q.gen
	q.mu.Unlock()
	q.put(ctx, key, v, since)
}

// begin records an in-flight fetch of key and returns the current
// generation.
func (q *Queries) begin(key Key) uint64 {
	name := key.String()
	q.mu.Lock()
	defer q.mu.Unlock()
	f := q.inflight[name]
	f.key = key
	f.n++
	q.inflight[name] = f
	return q.gen
}

func (q *Queries) end(name string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	f := q.inflight[name]
	if f.n--; f.n <= 0 {
		delete(q.inflight, name)
		return
	}
	q.inflight[name] = f
}

// put stores v unless a prefix of key was invalidated after generation
// since. It reports whether v was stored.
func (q *Queries) put(ctx context.Context, key Key, v any, since uint64) bool {
	now := q.now()
	name := key.String()

	q.mu.Lock()
	for i := 0; i <= len(key); i++ {
		if q.cleared[key[:i].String()] > since {
			q.mu.Unlock()
			return false
		}
	}
	q.entries[name] = memEntry{key: key, value: v, fetchedAt: now}
	q.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		q.logger.Warn("query not persisted", "key", name, "err", err)
		return true
	}
	env, _ := json.Marshal(envelope{FetchedAt: now, Data: data})
	if err := q.store.Set(ctx, dataKey(name), env, q.staleTime); err != nil {
		q.logger.Warn("query not persisted", "key", name, "err", err)
	}
	return true
}

func lookup[T any](ctx context.Context, q *Queries, key Key) (T, bool) {
	var zero T
	name := key.String()
	now := q.now()

	q.mu.Lock()
	e, ok := q.entries[name]
	q.mu.Unlock()
	if ok && now.Sub(e.fetchedAt) < q.staleTime {
		if v, ok := e.value.(T); ok {
			q.logger.Debug("query hit", "key", name)
			return v, true
		}
	}

	raw, err := q.store.Get(ctx, dataKey(name))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			q.logger.Warn("query store read failed", "key", name, "err", err)
		}
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || now.Sub(env.FetchedAt) >= q.staleTime {
		return zero, false
	}
	if q.invalidatedSince(ctx, key, env.FetchedAt) {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return zero, false
	}

	q.mu.Lock()
	q.entries[name] = memEntry{key: key, value: v, fetchedAt: env.FetchedAt}
	q.mu.Unlock()
	q.logger.Debug("query hit", "key", name, "source", "store")
	return v, true
}

// Invalidate marks every query under prefix as stale, in memory and in the
// backing store, so the next Fetch runs its fetch function. Fetches already
// running under prefix still return to their callers but are not cached.
func (q *Queries) Invalidate(ctx context.Context, prefix Key) error {
	q.mu.Lock()
	q.gen++
	q.cleared[prefix.String()] = q.gen
	for name, e := range q.entries {
		if e.key.HasPrefix(prefix) {
			delete(q.entries, name)
		}
	}
	for name, f := range q.inflight {
		if f.key.HasPrefix(prefix) {
			q.group.Forget(name)
		}
	}
	q.mu.Unlock()

	// The store cannot enumerate keys, so a timestamped marker shadows any
	// persisted entry under prefix that was fetched before it.
	marker, err := json.Marshal(q.now())
	if err != nil {
		return err
	}
	if err := q.store.Set(ctx, markerKey(prefix.String()), marker, q.staleTime); err != nil {
		return fmt.Errorf("invalidate %s: %w", prefix, err)
	}
	q.logger.Debug("query invalidated", "prefix", prefix.String())
	return nil
}

// Len returns the number of in-memory entries.
func (q *Queries) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queries) invalidatedSince(ctx context.Context, key Key, fetchedAt time.Time) bool {
	for i := 1; i <= len(key); i++ {
		raw, err := q.store.Get(ctx, markerKey(key[:i].String()))
		if err != nil {
			continue
		}
		var at time.Time
		if err := json.Unmarshal(raw, &at); err != nil {
			continue
		}
		if !fetchedAt.After(at) {
			return true
		}
	}
	return false
}

func dataKey(name string) string   { return "query:" + name }
func markerKey(name string) string { return "invalidated:" + name }

// FetchPaintings is Fetch for painting lists.
func (q *Queries) FetchPaintings(ctx context.Context, key Key, fn func(context.Context) ([]model.Painting, error)) ([]model.Painting, error) {
	return Fetch(ctx, q, key, fn)
}
