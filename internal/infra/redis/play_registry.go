package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlayRegistry is a Redis implementation of app.PlayRegistry, so several serve instances
// behind one balancer report the same active count.
// Plays are stored as: ZADD quiz:plays:{slug} {lastSeenUnix} {playID}. Live plays re-register
// on a heartbeat; members not seen within ttl are trimmed on read, so a crashed instance
// cannot pin the count.
type PlayRegistry struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewPlayRegistry(client *redis.Client, ttl time.Duration) *PlayRegistry {
	return &PlayRegistry{client: client, ttl: ttl, now: time.Now}
}

// Register adds playID or refreshes its last-seen score.
func (r *PlayRegistry) Register(ctx context.Context, slug, playID string) error {
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, r.key(slug), redis.Z{Score: float64(r.now().Unix()), Member: playID})
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key(slug), r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *PlayRegistry) Unregister(ctx context.Context, slug, playID string) error {
	return r.client.ZRem(ctx, r.key(slug), playID).Err()
}

func (r *PlayRegistry) Active(ctx context.Context, slug string) (int, error) {
	pipe := r.client.TxPipeline()
	if r.ttl > 0 {
		cutoff := r.now().Add(-r.ttl).Unix()
		pipe.ZRemRangeByScore(ctx, r.key(slug), "-inf", strconv.FormatInt(cutoff, 10))
	}
	card := pipe.ZCard(ctx, r.key(slug))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(card.Val()), nil
}

func (r *PlayRegistry) key(slug string) string {
	return "quiz:plays:" + slug
}
