package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mirshard/server/internal/config"
	"github.com/redis/go-redis/v9"
)

// dirtySetKey is the Redis SET holding every character id awaiting a
// database flush.
const dirtySetKey = "mirshard:dirty_characters"

// Cache is the write-behind front tier for character aggregates, modeled
// on Generativebots-ocx-backend-go-svc's GoRedisAdapter: a thin go-redis/v9
// wrapper exposing only the handful of operations the Repository needs.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed (%s): %w", cfg.Addr, err)
	}
	return &Cache{rdb: rdb, ttl: cfg.TTL}, nil
}

func (c *Cache) Close() error { return c.rdb.Close() }

func characterKey(id int64) string { return fmt.Sprintf("mirshard:character:%d", id) }
func equipmentKey(id int64) string { return fmt.Sprintf("mirshard:equipment:%d", id) }
func inventoryKey(id int64) string { return fmt.Sprintf("mirshard:inventory:%d", id) }

func (c *Cache) GetCharacter(ctx context.Context, id int64) (*CharacterRow, error) {
	var row CharacterRow
	if err := c.getJSON(ctx, characterKey(id), &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Cache) SetCharacter(ctx context.Context, row *CharacterRow) error {
	return c.setJSON(ctx, characterKey(row.ID), row)
}

func (c *Cache) GetInventory(ctx context.Context, charID int64) ([]ItemRow, error) {
	var rows []ItemRow
	if err := c.getJSON(ctx, inventoryKey(charID), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Cache) SetInventory(ctx context.Context, charID int64, rows []ItemRow) error {
	return c.setJSON(ctx, inventoryKey(charID), rows)
}

func (c *Cache) GetSkills(ctx context.Context, charID int64) ([]SkillRow, error) {
	var rows []SkillRow
	if err := c.getJSON(ctx, fmt.Sprintf("mirshard:skills:%d", charID), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Cache) SetSkills(ctx context.Context, charID int64, rows []SkillRow) error {
	return c.setJSON(ctx, fmt.Sprintf("mirshard:skills:%d", charID), rows)
}

// MarkDirty adds id to the dirty set. Callers must do this only after the
// corresponding cache write succeeds (§4.J ordering guarantee).
func (c *Cache) MarkDirty(ctx context.Context, id int64) error {
	return c.rdb.SAdd(ctx, dirtySetKey, id).Err()
}

// ClearDirty removes id from the dirty set, only once its transaction has
// committed.
func (c *Cache) ClearDirty(ctx context.Context, id int64) error {
	return c.rdb.SRem(ctx, dirtySetKey, id).Err()
}

// DirtyIDs returns every character id currently marked dirty.
func (c *Cache) DirtyIDs(ctx context.Context) ([]int64, error) {
	members, err := c.rdb.SMembers(ctx, dirtySetKey).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		var id int64
		if _, err := fmt.Sscanf(m, "%d", &id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *Cache) getJSON(ctx context.Context, key string, dest any) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (c *Cache) setJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
