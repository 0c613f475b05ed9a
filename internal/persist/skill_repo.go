package persist

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// SkillRow is one learned skill and its cooldown deadline.
type SkillRow struct {
	CharID     int64
	TemplateID int32
	Level      int32
	Hotkey     int16
	CooldownUntil *time.Time
}

type SkillRepo struct {
	db *DB
}

func NewSkillRepo(db *DB) *SkillRepo {
	return &SkillRepo{db: db}
}

func (r *SkillRepo) LoadByCharID(ctx context.Context, charID int64) ([]SkillRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT char_id, template_id, level, hotkey, cooldown_until
		 FROM character_skills WHERE char_id = $1`, charID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SkillRow
	for rows.Next() {
		var s SkillRow
		if err := rows.Scan(&s.CharID, &s.TemplateID, &s.Level, &s.Hotkey, &s.CooldownUntil); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Save replaces all learned skills for a character inside the supplied
// transaction, mirroring InventoryRepo.Save's delete + bulk insert shape.
func (r *SkillRepo) Save(ctx context.Context, tx pgx.Tx, charID int64, skills []SkillRow) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_skills WHERE char_id = $1`, charID); err != nil {
		return err
	}
	for _, s := range skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_skills (char_id, template_id, level, hotkey, cooldown_until)
			 VALUES ($1,$2,$3,$4,$5)`,
			charID, s.TemplateID, s.Level, s.Hotkey, s.CooldownUntil,
		); err != nil {
			return err
		}
	}
	return nil
}
