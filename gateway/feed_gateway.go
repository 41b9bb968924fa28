// Package gateway provides anti-corruption layer implementations.
package gateway

import (
	"context"
	"errors"
	"log/slog"

	"feed-hub/domain"
	"feed-hub/port"
)

// FeedGateway implements FeedStorePort using a driver.
type FeedGateway struct {
	driver port.FeedStorePort
}

// NewFeedGateway creates a new FeedGateway.
func NewFeedGateway(driver port.FeedStorePort) *FeedGateway {
	return &FeedGateway{driver: driver}
}

// PublishItem validates the feed handle and delegates to the driver.
func (g *FeedGateway) PublishItem(ctx context.Context, feed domain.FeedConfig, id, content string) (*domain.PublishReceipt, error) {
	if err := feed.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("item id is required")
	}

	// Items are opaque payloads; empty content is allowed but worth a
	// note in the logs.
	if content == "" {
		slog.WarnContext(ctx, "publishing item with empty content",
			"feed", feed.Name.String(),
			"item_id", id,
		)
	}

	return g.driver.PublishItem(ctx, feed, id, content)
}

// RetractItem validates the feed handle and delegates to the driver.
func (g *FeedGateway) RetractItem(ctx context.Context, feed domain.FeedConfig, id string) error {
	if err := feed.Validate(); err != nil {
		return err
	}
	if id == "" {
		return errors.New("item id is required")
	}

	return g.driver.RetractItem(ctx, feed, id)
}

// GetIDs returns the feed's item IDs in increasing score order.
func (g *FeedGateway) GetIDs(ctx context.Context, feed domain.FeedName) ([]string, error) {
	return g.driver.GetIDs(ctx, feed)
}

// GetItem returns the content stored under id.
func (g *FeedGateway) GetItem(ctx context.Context, feed domain.FeedName, id string) (string, error) {
	return g.driver.GetItem(ctx, feed, id)
}

// GetAll returns all items of the feed keyed by ID.
func (g *FeedGateway) GetAll(ctx context.Context, feed domain.FeedName) (map[string]string, error) {
	return g.driver.GetAll(ctx, feed)
}

// PublishCount returns the feed's accepted-publish counter.
func (g *FeedGateway) PublishCount(ctx context.Context, feed domain.FeedName) (int64, error) {
	return g.driver.PublishCount(ctx, feed)
}

// Ping checks if the store is available.
func (g *FeedGateway) Ping(ctx context.Context) error {
	return g.driver.Ping(ctx)
}
