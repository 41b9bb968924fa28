// Package usecase contains business logic for feed-hub.
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"feed-hub/domain"
	"feed-hub/metrics"
	"feed-hub/port"
)

// PublishResult contains the result of publishing an item.
type PublishResult struct {
	// ID is the item's ID, generated when the caller omitted one.
	ID string
	// Content echoes the stored content.
	Content string
	// Edited is true when the publish updated an existing ID.
	Edited bool
	// Evicted lists IDs removed to keep the feed within its bound,
	// oldest first.
	Evicted []string
}

// HealthStatus contains the health status of the service.
type HealthStatus struct {
	Healthy       bool
	RedisStatus   string
	UptimeSeconds int64
}

// FeedUsecase handles publish/retract/read operations for one feed.
//
// A per-feed mutex serializes publish and retract from this process: it is
// taken before the first transaction attempt and released exactly once, at
// the terminal outcome. Intermediate conflict retries happen with the lock
// held. Cross-process exclusion comes from the store's conditional
// transactions, not from this lock. Reads are unsynchronized.
type FeedUsecase struct {
	store port.FeedStorePort
	feed  domain.FeedConfig

	mu sync.Mutex
}

// NewFeedUsecase creates a usecase handle for one feed.
func NewFeedUsecase(store port.FeedStorePort, feed domain.FeedConfig) *FeedUsecase {
	return &FeedUsecase{
		store: store,
		feed:  feed,
	}
}

// Feed returns the feed handle this usecase operates on.
func (u *FeedUsecase) Feed() domain.FeedConfig {
	return u.feed
}

// Publish stores content in the feed. An empty id means a fresh unique ID
// is generated; an existing id makes this an edit. The result is returned
// only after the transaction has committed and its notifications are out.
func (u *FeedUsecase) Publish(ctx context.Context, content, id string) (*PublishResult, error) {
	if id == "" {
		id = uuid.New().String()
	}

	start := time.Now()

	u.mu.Lock()
	defer u.mu.Unlock()

	receipt, err := u.store.PublishItem(ctx, u.feed, id, content)
	if err != nil {
		return nil, err
	}

	kind := domain.EventPublish
	if !receipt.WasNew {
		kind = domain.EventEdit
	}
	metrics.RecordPublish(u.feed.Name.String(), kind.String(), len(receipt.Evicted), time.Since(start).Seconds())

	return &PublishResult{
		ID:      receipt.ID,
		Content: content,
		Edited:  !receipt.WasNew,
		Evicted: receipt.Evicted,
	}, nil
}

// Retract removes an item from the feed. Returns domain.ErrItemNotFound
// when id is not a member; the lock is released on that fast path without
// touching the store.
func (u *FeedUsecase) Retract(ctx context.Context, id string) error {
	start := time.Now()

	u.mu.Lock()
	defer u.mu.Unlock()

	err := u.store.RetractItem(ctx, u.feed, id)

	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, domain.ErrItemNotFound) {
			status = "not_found"
		}
	}
	metrics.RecordRetract(u.feed.Name.String(), status, time.Since(start).Seconds())

	return err
}

// GetIDs returns the feed's item IDs in increasing score order.
func (u *FeedUsecase) GetIDs(ctx context.Context) ([]string, error) {
	return u.store.GetIDs(ctx, u.feed.Name)
}

// GetItem returns the content stored under id.
func (u *FeedUsecase) GetItem(ctx context.Context, id string) (string, error) {
	return u.store.GetItem(ctx, u.feed.Name, id)
}

// GetAll returns all items of the feed keyed by ID.
func (u *FeedUsecase) GetAll(ctx context.Context) (map[string]string, error) {
	return u.store.GetAll(ctx, u.feed.Name)
}

// PublishCount returns the feed's accepted-publish counter.
func (u *FeedUsecase) PublishCount(ctx context.Context) (int64, error) {
	return u.store.PublishCount(ctx, u.feed.Name)
}

// Registry hands out per-feed usecases, creating them lazily. Feed
// configuration itself is an external concern; the registry only applies
// the configured default bound to names it has not seen.
type Registry struct {
	store            port.FeedStorePort
	defaultMaxLength int64
	startTime        time.Time

	mu    sync.Mutex
	feeds map[domain.FeedName]*FeedUsecase
}

// NewRegistry creates a feed registry.
func NewRegistry(store port.FeedStorePort, defaultMaxLength int64) *Registry {
	return &Registry{
		store:            store,
		defaultMaxLength: defaultMaxLength,
		startTime:        time.Now(),
		feeds:            make(map[domain.FeedName]*FeedUsecase),
	}
}

// Get returns the usecase for a feed name, creating it with the default
// bound on first use. The same handle is returned for the same name, so
// the per-feed serialization lock is shared by all callers in the process.
func (r *Registry) Get(name domain.FeedName) *FeedUsecase {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.feeds[name]; ok {
		return u
	}

	u := NewFeedUsecase(r.store, domain.FeedConfig{
		Name:      name,
		MaxLength: r.defaultMaxLength,
	})
	r.feeds[name] = u
	return u
}

// Configure registers a feed with an explicit bound, replacing any default
// handle for the name.
func (r *Registry) Configure(feed domain.FeedConfig) (*FeedUsecase, error) {
	if err := feed.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u := NewFeedUsecase(r.store, feed)
	r.feeds[feed.Name] = u
	return u, nil
}

// HealthCheck checks the health of the service.
func (r *Registry) HealthCheck(ctx context.Context) *HealthStatus {
	err := r.store.Ping(ctx)

	status := &HealthStatus{
		UptimeSeconds: int64(time.Since(r.startTime).Seconds()),
	}

	if err != nil {
		status.Healthy = false
		status.RedisStatus = err.Error()
	} else {
		status.Healthy = true
		status.RedisStatus = "connected"
	}

	return status
}
