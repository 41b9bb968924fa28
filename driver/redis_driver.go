// Package driver provides implementations for external dependencies.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"feed-hub/domain"
	"feed-hub/metrics"
)

// ErrTxConflict is returned when the configured attempt cap is exhausted
// without a successful commit. With the default unlimited cap it is never
// returned.
var ErrTxConflict = errors.New("transaction aborted by concurrent writers")

// RedisDriver implements FeedStorePort using Redis.
//
// The ID index is a sorted set scored by publish/edit time, item contents
// live in a hash, and every write goes through a WATCH/MULTI/EXEC
// transaction so the two stay consistent under concurrent writers.
type RedisDriver struct {
	client *redis.Client

	// maxTxAttempts caps retries on transaction conflict. Zero means
	// retry without bound.
	maxTxAttempts int
}

// NewRedisDriver creates a new Redis driver.
func NewRedisDriver(addr string) (*RedisDriver, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisDriver{client: client}, nil
}

// NewRedisDriverWithURL creates a new Redis driver from a URL.
func NewRedisDriverWithURL(url string) (*RedisDriver, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	return &RedisDriver{client: client}, nil
}

// SetMaxTxAttempts caps the retry loop on transaction conflict. Zero
// restores the default unlimited behavior.
func (d *RedisDriver) SetMaxTxAttempts(n int) {
	d.maxTxAttempts = n
}

// Client exposes the underlying Redis client for collaborators that share
// the connection, such as the subscriber.
func (d *RedisDriver) Client() *redis.Client {
	return d.client
}

// Close closes the Redis connection.
func (d *RedisDriver) Close() error {
	return d.client.Close()
}

// runTx executes attempt under a WATCH on the given keys and retries it
// whenever the commit is rejected because a watched key changed. Each
// retry re-runs attempt from scratch against a fresh snapshot; nothing
// from an aborted attempt survives. There is no backoff.
func (d *RedisDriver) runTx(ctx context.Context, operation string, attempt func(tx *redis.Tx) error, keys ...string) error {
	for attempts := 1; ; attempts++ {
		err := d.client.Watch(ctx, attempt, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		metrics.RecordTxRetry(operation)
		if d.maxTxAttempts > 0 && attempts >= d.maxTxAttempts {
			return fmt.Errorf("%s after %d attempts: %w", operation, attempts, ErrTxConflict)
		}
	}
}

// PublishItem writes content under id and emits the matching
// notifications, all in one transaction watching the ID index:
//
//  1. classify the write from the snapshot (new ID vs existing),
//  2. for a bounded feed, compute the overflow set from the same snapshot,
//  3. queue eviction removals with their retract notifications, the index
//     insert, the publish-counter increment, the item write, and the
//     publish-or-edit notification,
//  4. EXEC; on rejection restart from step 1.
func (d *RedisDriver) PublishItem(ctx context.Context, feed domain.FeedConfig, id, content string) (*domain.PublishReceipt, error) {
	indexKey := feed.Name.IndexKey()
	itemsKey := feed.Name.ItemsKey()

	var receipt *domain.PublishReceipt

	attempt := func(tx *redis.Tx) error {
		_, err := tx.ZScore(ctx, indexKey, id).Result()
		exists := err == nil
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		var evicted []string
		if feed.Bounded() {
			size, err := tx.ZCard(ctx, indexKey).Result()
			if err != nil {
				return err
			}
			if n := domain.OverflowCount(size, feed.MaxLength); n > 0 {
				evicted, err = tx.ZRange(ctx, indexKey, 0, n-1).Result()
				if err != nil {
					return err
				}
			}
		}

		score := float64(time.Now().UnixMilli())

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, old := range evicted {
				pipe.ZRem(ctx, indexKey, old)
				pipe.HDel(ctx, itemsKey, old)
				pipe.Publish(ctx, feed.Name.Channel(domain.EventRetract), old)
			}
			pipe.ZAdd(ctx, indexKey, redis.Z{Score: score, Member: id})
			pipe.Incr(ctx, feed.Name.CounterKey())
			pipe.HSet(ctx, itemsKey, id, content)

			kind := domain.EventPublish
			if exists {
				kind = domain.EventEdit
			}
			pipe.Publish(ctx, feed.Name.Channel(kind), domain.EncodeItemPayload(id, content))
			return nil
		})
		if err != nil {
			return err
		}

		receipt = &domain.PublishReceipt{
			ID:      id,
			WasNew:  !exists,
			Evicted: evicted,
		}
		return nil
	}

	if err := d.runTx(ctx, "publish", attempt, indexKey); err != nil {
		return nil, err
	}
	return receipt, nil
}

// RetractItem removes id from the feed and emits a retract notification.
// The existence check and the removal run under the same WATCH, so a
// conflict retries the whole operation including the check: an ID removed
// by a racing retract surfaces as ErrItemNotFound, not as a silent no-op.
func (d *RedisDriver) RetractItem(ctx context.Context, feed domain.FeedConfig, id string) error {
	indexKey := feed.Name.IndexKey()
	itemsKey := feed.Name.ItemsKey()

	attempt := func(tx *redis.Tx) error {
		_, err := tx.ZRank(ctx, indexKey, id).Result()
		if errors.Is(err, redis.Nil) {
			// Fail fast, no side effects. Returning a non-conflict
			// error abandons the watch without committing anything.
			return domain.ErrItemNotFound
		}
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, indexKey, id)
			pipe.HDel(ctx, itemsKey, id)
			pipe.Publish(ctx, feed.Name.Channel(domain.EventRetract), id)
			return nil
		})
		return err
	}

	return d.runTx(ctx, "retract", attempt, indexKey)
}

// GetIDs returns the feed's item IDs in increasing score order.
func (d *RedisDriver) GetIDs(ctx context.Context, feed domain.FeedName) ([]string, error) {
	return d.client.ZRange(ctx, feed.IndexKey(), 0, -1).Result()
}

// GetItem returns the content stored under id.
func (d *RedisDriver) GetItem(ctx context.Context, feed domain.FeedName, id string) (string, error) {
	content, err := d.client.HGet(ctx, feed.ItemsKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrItemNotFound
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// GetAll returns all items of the feed keyed by ID.
func (d *RedisDriver) GetAll(ctx context.Context, feed domain.FeedName) (map[string]string, error) {
	return d.client.HGetAll(ctx, feed.ItemsKey()).Result()
}

// PublishCount returns the feed's accepted-publish counter.
func (d *RedisDriver) PublishCount(ctx context.Context, feed domain.FeedName) (int64, error) {
	count, err := d.client.Get(ctx, feed.CounterKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// Ping checks if Redis is available.
func (d *RedisDriver) Ping(ctx context.Context) error {
	err := d.client.Ping(ctx).Err()
	if err != nil {
		metrics.SetRedisDisconnected()
		return err
	}
	metrics.SetRedisConnected()
	return nil
}
