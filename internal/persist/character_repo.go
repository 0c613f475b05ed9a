package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// CharacterRow is the persisted shape of a character aggregate, matching
// §6's persisted-state layout: identity, attributes, and position.
type CharacterRow struct {
	ID          int64
	AccountName string
	Name        string
	Class       int16
	Gender      int16
	Level       int32
	Exp         int64
	HP          int32
	MP          int32
	MaxHP       int32
	MaxMP       int32
	Attack      int32
	Defense     int32
	MagicAttack int32
	MagicDefense int32
	X           int32
	Y           int32
	MapID       int32
	Direction   int16
	Gold        int64
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `id, account_name, name, class, gender,
	level, exp, hp, mp, max_hp, max_mp, attack, defense, magic_attack, magic_defense,
	x, y, map_id, direction, gold, created_at, deleted_at`

func scanCharacter(row pgx.Row) (*CharacterRow, error) {
	c := &CharacterRow{}
	err := row.Scan(
		&c.ID, &c.AccountName, &c.Name, &c.Class, &c.Gender,
		&c.Level, &c.Exp, &c.HP, &c.MP, &c.MaxHP, &c.MaxMP, &c.Attack, &c.Defense, &c.MagicAttack, &c.MagicDefense,
		&c.X, &c.Y, &c.MapID, &c.Direction, &c.Gold, &c.CreatedAt, &c.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CharacterRepo) LoadByName(ctx context.Context, name string) (*CharacterRow, error) {
	return scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE name = $1 AND deleted_at IS NULL`, name))
}

func (r *CharacterRepo) LoadByID(ctx context.Context, id int64) (*CharacterRow, error) {
	return scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1 AND deleted_at IS NULL`, id))
}

func (r *CharacterRepo) LoadByAccount(ctx context.Context, accountName string) ([]CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_name = $1 AND deleted_at IS NULL ORDER BY id`,
		accountName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CharacterRow
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters (
			account_name, name, class, gender,
			level, exp, hp, mp, max_hp, max_mp, attack, defense, magic_attack, magic_defense,
			x, y, map_id, direction, gold
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id, created_at`,
		c.AccountName, c.Name, c.Class, c.Gender,
		c.Level, c.Exp, c.HP, c.MP, c.MaxHP, c.MaxMP, c.Attack, c.Defense, c.MagicAttack, c.MagicDefense,
		c.X, c.Y, c.MapID, c.Direction, c.Gold,
	).Scan(&c.ID, &c.CreatedAt)
}

// Save persists the full mutable state of a character aggregate (used
// inside SaveCharacterFull's transaction, and as the synchronous DB-write
// fallback from SaveCharacter when the cache is unready).
func (r *CharacterRepo) Save(ctx context.Context, tx pgx.Tx, c *CharacterRow) error {
	q := tx
	if q == nil {
		_, err := r.db.Pool.Exec(ctx, saveCharacterSQL,
			c.Level, c.Exp, c.HP, c.MP, c.MaxHP, c.MaxMP, c.Attack, c.Defense, c.MagicAttack, c.MagicDefense,
			c.X, c.Y, c.MapID, c.Direction, c.Gold, c.ID,
		)
		return err
	}
	_, err := q.Exec(ctx, saveCharacterSQL,
		c.Level, c.Exp, c.HP, c.MP, c.MaxHP, c.MaxMP, c.Attack, c.Defense, c.MagicAttack, c.MagicDefense,
		c.X, c.Y, c.MapID, c.Direction, c.Gold, c.ID,
	)
	return err
}

const saveCharacterSQL = `UPDATE characters SET
	level = $1, exp = $2, hp = $3, mp = $4, max_hp = $5, max_mp = $6,
	attack = $7, defense = $8, magic_attack = $9, magic_defense = $10,
	x = $11, y = $12, map_id = $13, direction = $14, gold = $15
	WHERE id = $16`

func (r *CharacterRepo) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM characters WHERE name = $1)`, name,
	).Scan(&exists)
	return exists, err
}

func (r *CharacterRepo) SoftDelete(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET deleted_at = NOW() WHERE name = $1 AND deleted_at IS NULL`, name)
	return err
}
