// Package domain contains core domain types for feed-hub.
package domain

import (
	"errors"
	"fmt"
)

// FeedName identifies a feed within the hub.
type FeedName string

// keyPrefix namespaces all feed-hub keys in Redis.
const keyPrefix = "feedhub"

// String returns the string representation of the feed name.
func (f FeedName) String() string {
	return string(f)
}

// IndexKey returns the sorted-set key holding the feed's ordered item IDs.
// Scores are publish/edit timestamps in milliseconds.
func (f FeedName) IndexKey() string {
	return fmt.Sprintf("%s:%s:index", keyPrefix, f)
}

// ItemsKey returns the hash key holding the feed's item contents by ID.
func (f FeedName) ItemsKey() string {
	return fmt.Sprintf("%s:%s:items", keyPrefix, f)
}

// CounterKey returns the key of the feed's publish counter.
func (f FeedName) CounterKey() string {
	return fmt.Sprintf("%s:%s:publishes", keyPrefix, f)
}

// Channel returns the pub/sub channel for an event kind, scoped by feed name.
func (f FeedName) Channel(kind EventKind) string {
	return string(f) + "." + string(kind)
}

// Channels returns all notification channels for the feed, including the
// reserved position channel that this core never publishes to.
func (f FeedName) Channels() []string {
	return []string{
		f.Channel(EventPublish),
		f.Channel(EventEdit),
		f.Channel(EventRetract),
		f.Channel(EventPosition),
	}
}

// FeedConfig describes a feed handle: its name and optional size bound.
type FeedConfig struct {
	// Name is the feed identifier, unique within the hub.
	Name FeedName
	// MaxLength caps the number of items in the feed. Zero means unbounded.
	// When the bound is exceeded the oldest items are evicted.
	MaxLength int64
}

// Validate checks that the feed config is usable.
func (c FeedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("feed name is required")
	}
	if c.MaxLength < 0 {
		return errors.New("max length must not be negative")
	}
	return nil
}

// Bounded returns true if the feed has a size bound.
func (c FeedConfig) Bounded() bool {
	return c.MaxLength > 0
}

// OverflowCount returns how many of the lowest-scored entries must be
// evicted before inserting one more item into a feed of currentSize with
// the given bound. The +1 accounts for the item inserted in the same
// transaction. Returns 0 when nothing has to go.
func OverflowCount(currentSize, maxLength int64) int64 {
	n := currentSize - maxLength + 1
	if n < 0 {
		return 0
	}
	return n
}
