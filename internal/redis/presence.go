package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Presence keys:
// - presence:online:{user_id} - expires after the heartbeat TTL

const presenceKeyPrefix = "presence:online:"

// PresenceStore tracks which users are currently online. A user counts
// as online while their heartbeat key has not expired; there is no
// explicit sign-off.
type PresenceStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewPresenceStore(client *goredis.Client, ttl time.Duration) *PresenceStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &PresenceStore{client: client, ttl: ttl}
}

// Heartbeat refreshes the caller's online window. Called by the auth
// gate on every authenticated request.
func (p *PresenceStore) Heartbeat(ctx context.Context, userID string) error {
	return p.client.Set(ctx, presenceKeyPrefix+userID, "1", p.ttl).Err()
}

// OnlineAmong checks a batch of users in one round trip.
func (p *PresenceStore) OnlineAmong(ctx context.Context, userIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	pipe := p.client.Pipeline()
	cmds := make([]*goredis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, presenceKeyPrefix+id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	for i, id := range userIDs {
		result[id] = cmds[i].Val() > 0
	}
	return result, nil
}
