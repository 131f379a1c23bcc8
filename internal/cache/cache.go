// Package cache holds per-user list results so repeated reads skip
// Postgres. Mutation paths invalidate the owner's keys before reporting
// success, which keeps read-after-write consistency: redis here is an
// accelerator, never the source of truth.
package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/limbo/healthtrack/pkg/cleanup"
)

var listTTL = 5 * time.Minute

type ListCache struct {
	rdb *redis.Client
}

func New(address string) *ListCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: address,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("error while pinging redis for list cache: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    rdb.Close,
	})
	return &ListCache{
		rdb: rdb,
	}
}

func NewWithClient(rdb *redis.Client) *ListCache {
	if rdb == nil {
		log.Fatal("provided nil redis client for list cache")
	}
	return &ListCache{
		rdb: rdb,
	}
}

// GetList unmarshals the cached value under key into dest.
// Returns false with nil error on a miss.
func (c *ListCache) GetList(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.New("reading cached list error: " + err.Error())
	}
	if err := sonic.Unmarshal(data, dest); err != nil {
		return false, errors.New("decoding cached list error: " + err.Error())
	}
	return true, nil
}

func (c *ListCache) SetList(ctx context.Context, key string, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return errors.New("encoding list for cache error: " + err.Error())
	}
	if err := c.rdb.Set(ctx, key, data, listTTL).Err(); err != nil {
		return errors.New("storing cached list error: " + err.Error())
	}
	return nil
}

func (c *ListCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return errors.New("invalidating cached lists error: " + err.Error())
	}
	return nil
}

func AppointmentsKey(uid uuid.UUID) string {
	return "appointments:" + uid.String()
}

func MedicationsKey(uid uuid.UUID) string {
	return "medications:" + uid.String()
}

func MedicationLogsKey(uid uuid.UUID, day time.Time) string {
	return "medlogs:" + uid.String() + ":" + day.Format("2006-01-02")
}
