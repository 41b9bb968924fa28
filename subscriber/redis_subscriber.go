// Package subscriber provides per-feed pub/sub subscription and local
// event dispatch for feed-hub.
package subscriber

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"feed-hub/domain"
)

// Handler processes a single decoded feed notification.
type Handler func(n domain.Notification)

// Handlers bundles the callbacks registered by one Subscribe call. Nil
// entries are skipped.
type Handlers struct {
	// OnPublish receives publish events (ID and content).
	OnPublish Handler
	// OnEdit receives edit events (ID and content).
	OnEdit Handler
	// OnRetract receives retract events (ID only), including evictions.
	OnRetract Handler
	// OnPosition receives ordering-change events. The channel is
	// reserved; this core never publishes to it.
	OnPosition Handler
	// OnSubscribed is invoked once the underlying channel subscription is
	// confirmed. Later Subscribe calls on an already-subscribed
	// Subscriber invoke it immediately.
	OnSubscribed func()
}

// Subscriber listens on one feed's notification channels and dispatches
// decoded events to locally registered handlers in registration order.
// The underlying channel subscription happens at most once per instance.
type Subscriber struct {
	client *redis.Client
	feed   domain.FeedName
	logger *slog.Logger

	mu        sync.Mutex
	handlers  map[domain.EventKind][]Handler
	pubsub    *redis.PubSub
	started   bool
	closeOnce sync.Once
	done      chan struct{}
}

// NewSubscriber creates a subscriber for one feed. The Redis client is
// shared with the driver; Subscribe opens a dedicated pub/sub connection
// from it.
func NewSubscriber(client *redis.Client, feed domain.FeedName, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}

	return &Subscriber{
		client:   client,
		feed:     feed,
		logger:   logger,
		handlers: make(map[domain.EventKind][]Handler),
		done:     make(chan struct{}),
	}
}

// Subscribe registers handlers for the feed's events. The first call
// subscribes to the underlying channels and confirms via OnSubscribed once
// the transport acknowledges; subsequent calls only append handlers and
// confirm immediately.
func (s *Subscriber) Subscribe(ctx context.Context, h Handlers) error {
	s.mu.Lock()
	s.register(domain.EventPublish, h.OnPublish)
	s.register(domain.EventEdit, h.OnEdit)
	s.register(domain.EventRetract, h.OnRetract)
	s.register(domain.EventPosition, h.OnPosition)

	if s.started {
		s.mu.Unlock()
		if h.OnSubscribed != nil {
			h.OnSubscribed()
		}
		return nil
	}
	s.started = true
	s.mu.Unlock()

	pubsub := s.client.Subscribe(ctx, s.feed.Channels()...)

	// Receive blocks until the server acknowledges the subscription.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.pubsub = pubsub
	s.mu.Unlock()

	s.logger.Info("subscribed to feed channels",
		"feed", s.feed.String(),
		"channels", s.feed.Channels(),
	)

	go s.dispatchLoop(pubsub)

	if h.OnSubscribed != nil {
		h.OnSubscribed()
	}
	return nil
}

// register appends a handler to the kind's dispatch list. Caller holds mu.
func (s *Subscriber) register(kind domain.EventKind, h Handler) {
	if h == nil {
		return
	}
	s.handlers[kind] = append(s.handlers[kind], h)
}

// dispatchLoop delivers pub/sub messages to registered handlers until the
// subscriber is stopped.
func (s *Subscriber) dispatchLoop(pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.dispatch(msg)
		}
	}
}

// dispatch decodes one message and invokes the handlers registered for its
// kind, in registration order.
func (s *Subscriber) dispatch(msg *redis.Message) {
	kind, ok := domain.KindFromChannel(s.feed, msg.Channel)
	if !ok {
		s.logger.Warn("message on unexpected channel",
			"feed", s.feed.String(),
			"channel", msg.Channel,
		)
		return
	}

	n := domain.Notification{
		Feed: s.feed,
		Kind: kind,
	}
	switch kind {
	case domain.EventPublish, domain.EventEdit:
		id, content, err := domain.DecodeItemPayload(msg.Payload)
		if err != nil {
			s.logger.Warn("dropping malformed notification payload",
				"feed", s.feed.String(),
				"channel", msg.Channel,
			)
			return
		}
		n.ID = id
		n.Content = content
	default:
		n.ID = msg.Payload
	}

	s.mu.Lock()
	handlers := make([]Handler, len(s.handlers[kind]))
	copy(handlers, s.handlers[kind])
	s.mu.Unlock()

	for _, h := range handlers {
		h(n)
	}
}

// Stop closes the subscription and ends the dispatch loop. Safe to call
// more than once, and before Subscribe.
func (s *Subscriber) Stop() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	s.mu.Lock()
	pubsub := s.pubsub
	s.pubsub = nil
	s.mu.Unlock()

	if pubsub != nil {
		pubsub.Close()
	}
}
