package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BayScheduler/internal/domain"
)

// DefaultTTL время жизни записи о точке в кеше
const DefaultTTL = 5 * time.Minute

const keyPrefix = "bay-scheduler:location:"

// Cache read-through кеш точек обслуживания поверх репозитория
// Часы работы и число боксов читаются на каждый расчет слотов, а меняются редко
// При недоступности Redis запросы идут напрямую в репозиторий
type Cache struct {
	repo Repository
	rdb  *redis.Client
	ttl  time.Duration
	log  Logger
}

// NewCache создает кеш точек
func NewCache(repo Repository, rdb *redis.Client, ttl time.Duration, log Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{repo: repo, rdb: rdb, ttl: ttl, log: log}
}

// GetByID возвращает точку из кеша или из репозитория
func (c *Cache) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	key := cacheKey(id)

	payload, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var loc domain.Location
		if jsonErr := json.Unmarshal([]byte(payload), &loc); jsonErr == nil {
			return &loc, nil
		}
		c.log.Warn("LocationCache: corrupted entry %s, reloading", key)
	case errors.Is(err, redis.Nil):
		// промах
	default:
		c.log.Warn("LocationCache: redis get %s failed: %v", key, err)
		return c.repo.GetByID(ctx, id)
	}

	loc, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, loc)
	return loc, nil
}

// IsHoliday не кешируется: календарь праздников проверяется по дате запроса
func (c *Cache) IsHoliday(ctx context.Context, locationID int64, date time.Time) (bool, error) {
	return c.repo.IsHoliday(ctx, locationID, date)
}

func (c *Cache) store(ctx context.Context, key string, loc *domain.Location) {
	payload, err := json.Marshal(loc)
	if err != nil {
		c.log.Warn("LocationCache: failed to encode %s: %v", key, err)
		return
	}

	if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		c.log.Warn("LocationCache: redis set %s failed: %v", key, err)
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}
