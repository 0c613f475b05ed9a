package spawn

import (
	"math/rand"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
)

// DropSystem rolls a monster's drop table on death and creates ground items.
type DropSystem struct {
	world  *ecs.World
	stores *component.Stores
	tables *content.DropTables
	bus    *event.Bus
	rng    *rand.Rand
}

func NewDropSystem(world *ecs.World, stores *component.Stores, tables *content.DropTables, bus *event.Bus, rng *rand.Rand) *DropSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	d := &DropSystem{world: world, stores: stores, tables: tables, bus: bus, rng: rng}
	event.Subscribe(bus, d.onEntityDeath)
	return d
}

func (d *DropSystem) onEntityDeath(ev event.EntityDeath) {
	ident, ok := d.stores.Identity.Get(ev.Entity)
	if !ok || ident.Kind != component.KindMonster {
		return
	}
	pos, ok := d.stores.Position.Get(ev.Entity)
	if !ok {
		return
	}
	for _, entry := range d.tables.For(ident.TemplateID) {
		if d.rng.Float64() >= entry.DropRate {
			continue
		}
		count := entry.MinCount
		if entry.MaxCount > entry.MinCount {
			count += int32(d.rng.Intn(int(entry.MaxCount-entry.MinCount) + 1))
		}
		d.createGroundItem(entry.ItemTemplateID, count, *pos)
	}
}

func (d *DropSystem) createGroundItem(templateID int32, count int32, pos component.Position) {
	item := d.world.CreateEntity()
	d.stores.Item.Set(item, &component.ItemInstance{TemplateID: templateID, Count: count})
	d.stores.InventoryOwner.Set(item, &component.InventoryOwner{SlotIndex: component.GroundSlotIndex})
	d.stores.Position.Set(item, &pos)
	event.Emit(d.bus, event.ItemDropped{Item: item, X: pos.X, Y: pos.Y, MapID: pos.MapID})
}
