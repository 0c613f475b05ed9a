package persist

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ItemRow is the persisted shape of one item instance, whether bagged,
// equipped, or lying on the ground (ground items are not persisted; this
// row only ever represents a character-owned item).
type ItemRow struct {
	ID               int64
	CharID           int64
	TemplateID       int32
	Count            int32
	Durability       int32
	MaxDurability    int32
	ShapeCode        int32
	EnhancementLevel int16
	Luck             int16
	SlotIndex        int32 // -1 when equipped, persisted slot index otherwise
	EquippedSlot     int16 // component.EquipSlot value, -1 when bagged
}

type InventoryRepo struct {
	db *DB
}

func NewInventoryRepo(db *DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) LoadByCharID(ctx context.Context, charID int64) ([]ItemRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, char_id, template_id, count, durability, max_durability, shape_code,
		        enhancement_level, luck, slot_index, equipped_slot
		 FROM character_items WHERE char_id = $1`, charID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ItemRow
	for rows.Next() {
		var it ItemRow
		if err := rows.Scan(
			&it.ID, &it.CharID, &it.TemplateID, &it.Count, &it.Durability, &it.MaxDurability, &it.ShapeCode,
			&it.EnhancementLevel, &it.Luck, &it.SlotIndex, &it.EquippedSlot,
		); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, rows.Err()
}

// Save replaces all items for a character inside the supplied transaction
// (delete + bulk insert), matching the teacher's SaveInventory shape in
// internal/persist/item_repo.go.
func (r *InventoryRepo) Save(ctx context.Context, tx pgx.Tx, charID int64, items []ItemRow) error {
	if _, err := tx.Exec(ctx, `DELETE FROM character_items WHERE char_id = $1`, charID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO character_items (
				char_id, template_id, count, durability, max_durability, shape_code,
				enhancement_level, luck, slot_index, equipped_slot
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			charID, it.TemplateID, it.Count, it.Durability, it.MaxDurability, it.ShapeCode,
			it.EnhancementLevel, it.Luck, it.SlotIndex, it.EquippedSlot,
		); err != nil {
			return err
		}
	}
	return nil
}
