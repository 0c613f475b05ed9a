package persist

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Repository is the write-behind Persistence Repository of §4.J: a cache
// tier fronting the relational store, with a dirty set driving batched
// transactional flushes. Modeled on the teacher's internal/persist/wal.go
// Begin/defer-Rollback/Commit transaction shape for SaveCharacterFull.
type Repository struct {
	db        *DB
	cache     *Cache
	chars     *CharacterRepo
	inventory *InventoryRepo
	skills    *SkillRepo
	log       *zap.Logger
}

func NewRepository(db *DB, cache *Cache, log *zap.Logger) *Repository {
	return &Repository{
		db:        db,
		cache:     cache,
		chars:     NewCharacterRepo(db),
		inventory: NewInventoryRepo(db),
		skills:    NewSkillRepo(db),
		log:       log,
	}
}

// LoadCharacter reads the character aggregate, consulting the cache first
// and refilling it from the database on a miss.
func (r *Repository) LoadCharacter(ctx context.Context, id int64) (*CharacterRow, error) {
	row, err := r.cache.GetCharacter(ctx, id)
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.log.Warn("cache read failed, falling back to db", zap.Int64("char_id", id), zap.Error(err))
	}

	row, err = r.chars.LoadByID(ctx, id)
	if err != nil {
		return nil, &DatabaseError{Op: "load_character", Err: err}
	}
	if row == nil {
		return nil, ErrCharacterNotFound
	}
	if err := r.cache.SetCharacter(ctx, row); err != nil {
		r.log.Warn("cache refill failed", zap.Int64("char_id", id), zap.Error(err))
	}
	return row, nil
}

// SaveCharacter is the write-behind path: write to cache and mark dirty,
// falling back to a synchronous DB write only if the cache write itself
// fails. Cache write happens strictly before the dirty-set insert.
func (r *Repository) SaveCharacter(ctx context.Context, row *CharacterRow) error {
	if err := r.cache.SetCharacter(ctx, row); err != nil {
		r.log.Warn("cache unready, writing character synchronously", zap.Int64("char_id", row.ID), zap.Error(err))
		if err := r.chars.Save(ctx, nil, row); err != nil {
			return &DatabaseError{Op: "save_character", Err: err}
		}
		return nil
	}
	if err := r.cache.MarkDirty(ctx, row.ID); err != nil {
		return &DatabaseError{Op: "mark_dirty", Err: err}
	}
	return nil
}

// SaveCharacterFull writes character, inventory, and skills inside one DB
// transaction, rolling back on any failure, and refreshes the cache for
// all three only once the transaction commits.
func (r *Repository) SaveCharacterFull(ctx context.Context, char *CharacterRow, items []ItemRow, skills []SkillRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return &DatabaseError{Op: "save_character_full.begin", Err: err}
	}
	defer tx.Rollback(ctx)

	if err := r.chars.Save(ctx, tx, char); err != nil {
		return &DatabaseError{Op: "save_character_full.character", Err: err}
	}
	if err := r.inventory.Save(ctx, tx, char.ID, items); err != nil {
		return &DatabaseError{Op: "save_character_full.inventory", Err: err}
	}
	if err := r.skills.Save(ctx, tx, char.ID, skills); err != nil {
		return &DatabaseError{Op: "save_character_full.skills", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &DatabaseError{Op: "save_character_full.commit", Err: err}
	}

	if err := r.cache.SetCharacter(ctx, char); err != nil {
		r.log.Warn("post-commit cache refresh failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}
	if err := r.cache.SetInventory(ctx, char.ID, items); err != nil {
		r.log.Warn("post-commit cache refresh failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}
	if err := r.cache.SetSkills(ctx, char.ID, skills); err != nil {
		r.log.Warn("post-commit cache refresh failed", zap.Int64("char_id", char.ID), zap.Error(err))
	}
	return nil
}

// ListCharacters returns every non-deleted character belonging to an
// account, for the role-select screen.
func (r *Repository) ListCharacters(ctx context.Context, accountName string) ([]CharacterRow, error) {
	rows, err := r.chars.LoadByAccount(ctx, accountName)
	if err != nil {
		return nil, &DatabaseError{Op: "list_characters", Err: err}
	}
	return rows, nil
}

// CharacterNameExists reports whether name is already taken, deleted or
// not, since names are never recycled.
func (r *Repository) CharacterNameExists(ctx context.Context, name string) (bool, error) {
	exists, err := r.chars.NameExists(ctx, name)
	if err != nil {
		return false, &DatabaseError{Op: "character_name_exists", Err: err}
	}
	return exists, nil
}

// CreateCharacter inserts a new character row and primes the cache with it.
func (r *Repository) CreateCharacter(ctx context.Context, row *CharacterRow) error {
	if err := r.chars.Create(ctx, row); err != nil {
		return &DatabaseError{Op: "create_character", Err: err}
	}
	if err := r.cache.SetCharacter(ctx, row); err != nil {
		r.log.Warn("cache prime failed after create", zap.Int64("char_id", row.ID), zap.Error(err))
	}
	return nil
}

// LoadCharacterFull loads a character's full aggregate straight from the
// database, bypassing the cache, and primes the cache with the result. Used
// on character select / enter-game, where a stale cache entry from a
// previous session would be worse than the extra round trip.
func (r *Repository) LoadCharacterFull(ctx context.Context, id int64) (*CharacterRow, []ItemRow, []SkillRow, error) {
	char, err := r.chars.LoadByID(ctx, id)
	if err != nil {
		return nil, nil, nil, &DatabaseError{Op: "load_character_full.character", Err: err}
	}
	if char == nil {
		return nil, nil, nil, ErrCharacterNotFound
	}
	items, err := r.inventory.LoadByCharID(ctx, id)
	if err != nil {
		return nil, nil, nil, &DatabaseError{Op: "load_character_full.inventory", Err: err}
	}
	skills, err := r.skills.LoadByCharID(ctx, id)
	if err != nil {
		return nil, nil, nil, &DatabaseError{Op: "load_character_full.skills", Err: err}
	}

	if err := r.cache.SetCharacter(ctx, char); err != nil {
		r.log.Warn("cache prime failed", zap.Int64("char_id", id), zap.Error(err))
	}
	if err := r.cache.SetInventory(ctx, id, items); err != nil {
		r.log.Warn("cache prime failed", zap.Int64("char_id", id), zap.Error(err))
	}
	if err := r.cache.SetSkills(ctx, id, skills); err != nil {
		r.log.Warn("cache prime failed", zap.Int64("char_id", id), zap.Error(err))
	}
	return char, items, skills, nil
}

// LoadInventory reads from the cache only; on a cache miss it returns
// ErrNotImplemented and does not fall back to the database.
func (r *Repository) LoadInventory(ctx context.Context, charID int64) ([]ItemRow, error) {
	items, err := r.cache.GetInventory(ctx, charID)
	if err == nil {
		return items, nil
	}
	if errors.Is(err, ErrCacheMiss) {
		return nil, ErrNotImplemented
	}
	return nil, err
}

// FlushDirtyCharacters is the throttled write-behind drain: for each dirty
// id, reads character/inventory/skills from the cache; a cache miss on any
// of the three logs and retains the id for a later retry rather than
// writing partial state. Only a committed SaveCharacterFull clears the id.
func (r *Repository) FlushDirtyCharacters(ctx context.Context) error {
	ids, err := r.cache.DirtyIDs(ctx)
	if err != nil {
		return &DatabaseError{Op: "flush_dirty_characters.list", Err: err}
	}

	for _, id := range ids {
		char, err := r.cache.GetCharacter(ctx, id)
		if err != nil {
			r.log.Warn("dirty character missing from cache, retaining for retry", zap.Int64("char_id", id), zap.Error(err))
			continue
		}
		items, err := r.cache.GetInventory(ctx, id)
		if err != nil {
			r.log.Warn("dirty inventory missing from cache, retaining for retry", zap.Int64("char_id", id), zap.Error(err))
			continue
		}
		skills, err := r.cache.GetSkills(ctx, id)
		if err != nil {
			r.log.Warn("dirty skills missing from cache, retaining for retry", zap.Int64("char_id", id), zap.Error(err))
			continue
		}

		if err := r.SaveCharacterFull(ctx, char, items, skills); err != nil {
			r.log.Error("flush transaction failed, retaining for retry", zap.Int64("char_id", id), zap.Error(err))
			continue
		}
		if err := r.cache.ClearDirty(ctx, id); err != nil {
			r.log.Warn("failed to clear dirty flag after successful flush", zap.Int64("char_id", id), zap.Error(err))
		}
	}
	return nil
}
