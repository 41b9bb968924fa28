// Package port defines interfaces for external dependencies.
package port

import (
	"context"

	"feed-hub/domain"
)

// FeedStorePort defines the interface for feed storage operations.
type FeedStorePort interface {
	// PublishItem writes content under id, evicting the oldest entries of
	// a bounded feed as needed, and emits the matching notifications. The
	// whole write is one conditional transaction; on conflict it is
	// retried from a fresh snapshot. The receipt reports whether the ID
	// was new and which IDs were evicted.
	PublishItem(ctx context.Context, feed domain.FeedConfig, id, content string) (*domain.PublishReceipt, error)

	// RetractItem removes id from the feed and emits a retract
	// notification. Returns domain.ErrItemNotFound without side effects
	// when id is not a member.
	RetractItem(ctx context.Context, feed domain.FeedConfig, id string) error

	// GetIDs returns the feed's item IDs in increasing score order.
	GetIDs(ctx context.Context, feed domain.FeedName) ([]string, error)

	// GetItem returns the content stored under id, or
	// domain.ErrItemNotFound.
	GetItem(ctx context.Context, feed domain.FeedName, id string) (string, error)

	// GetAll returns all items of the feed keyed by ID.
	GetAll(ctx context.Context, feed domain.FeedName) (map[string]string, error)

	// PublishCount returns the feed's accepted-publish counter. The
	// counter includes edits and is a liveness signal only.
	PublishCount(ctx context.Context, feed domain.FeedName) (int64, error)

	// Ping checks if the store is available.
	Ping(ctx context.Context) error
}
