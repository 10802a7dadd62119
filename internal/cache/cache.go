package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/GlebRadaev/mileage/internal/domain"
)

const keyPrefix = "mileage:account:"

// setIfNewer writes the snapshot only when it is newer than the cached one.
// KEYS[1] account key, ARGV[1] version, ARGV[2] snapshot, ARGV[3] ttl in ms.
var setIfNewer = redis.NewScript(`
local cached = redis.call('HGET', KEYS[1], 'version')
if cached and tonumber(cached) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'data', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

// AccountCache keeps account snapshots in Redis, one hash per account holding the version and the JSON snapshot.
// Writers store the state they committed and readers fill on miss. A snapshot never replaces a newer one.
type AccountCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          0,
		MaxRetries:  5,
		DialTimeout: 10 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func New(client *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{
		client: client,
		ttl:    ttl,
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (c *AccountCache) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	val, err := c.client.HGet(ctx, key(id), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var account domain.Account
	if err := json.Unmarshal(val, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *AccountCache) Set(ctx context.Context, account *domain.Account) error {
	val, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return setIfNewer.Run(ctx, c.client, []string{key(account.ID)}, account.Version, val, c.ttl.Milliseconds()).Err()
}

func (c *AccountCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, key(id)).Err()
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) (*domain.Account, error) { return nil, nil }
func (Noop) Set(context.Context, *domain.Account) error { return nil }
func (Noop) Invalidate(context.Context, uuid.UUID) error { return nil }
