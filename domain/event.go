package domain

import (
	"errors"
	"strings"
)

// EventKind identifies the kind of feed notification.
type EventKind string

// Event kinds fanned out on the feed's pub/sub channels.
const (
	// EventPublish is emitted when an item with a previously unused ID is
	// accepted into the feed.
	EventPublish EventKind = "publish"
	// EventEdit is emitted when an existing ID's content is updated.
	EventEdit EventKind = "edit"
	// EventRetract is emitted when an item is removed, either explicitly
	// or by eviction from a bounded feed.
	EventRetract EventKind = "retract"
	// EventPosition is reserved for ordering-change signals. Nothing in
	// this core publishes to it; consumers may still subscribe.
	EventPosition EventKind = "position"
)

// validEventKinds contains all valid event kinds.
var validEventKinds = map[EventKind]bool{
	EventPublish:  true,
	EventEdit:     true,
	EventRetract:  true,
	EventPosition: true,
}

// IsValid returns true if the event kind is a known kind.
func (k EventKind) IsValid() bool {
	return validEventKinds[k]
}

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	return string(k)
}

// Notification is a decoded feed event as delivered to local handlers.
type Notification struct {
	// Feed is the feed the event belongs to.
	Feed FeedName
	// Kind is the event kind.
	Kind EventKind
	// ID is the item ID the event refers to.
	ID string
	// Content carries the item payload for publish and edit events.
	// Empty for retract and position events.
	Content string
}

// payloadSeparator splits the item ID from the content on the wire.
// Item IDs never contain NUL; content is opaque and may.
const payloadSeparator = "\x00"

// ErrMalformedPayload is returned when a publish/edit payload carries no
// ID/content separator.
var ErrMalformedPayload = errors.New("malformed notification payload")

// ErrItemNotFound is returned when an operation targets an item ID that is
// not a member of the feed.
var ErrItemNotFound = errors.New("item not found")

// EncodeItemPayload encodes a publish/edit payload: the item ID, a single
// NUL byte, then the raw content. Retract payloads are the bare ID.
func EncodeItemPayload(id, content string) string {
	return id + payloadSeparator + content
}

// DecodeItemPayload splits a publish/edit payload into ID and content.
func DecodeItemPayload(payload string) (id, content string, err error) {
	id, content, ok := strings.Cut(payload, payloadSeparator)
	if !ok {
		return "", "", ErrMalformedPayload
	}
	return id, content, nil
}

// KindFromChannel maps a channel name back to its event kind for the given
// feed. Returns false if the channel does not belong to the feed.
func KindFromChannel(feed FeedName, channel string) (EventKind, bool) {
	suffix, ok := strings.CutPrefix(channel, string(feed)+".")
	if !ok {
		return "", false
	}
	kind := EventKind(suffix)
	if !kind.IsValid() {
		return "", false
	}
	return kind, true
}

// PublishReceipt reports the outcome of a committed publish transaction.
type PublishReceipt struct {
	// ID is the item ID that was written.
	ID string
	// WasNew is true when the ID was not a member of the feed before the
	// transaction; false means the publish was an edit.
	WasNew bool
	// Evicted lists the IDs removed to keep the feed within its bound,
	// oldest first.
	Evicted []string
}
