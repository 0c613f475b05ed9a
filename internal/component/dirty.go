package component

// Dirty tracks which parts of a character changed since the last write-behind
// flush, so persistence only serializes what actually needs saving.
type Dirty struct {
	Attributes bool
	Items      bool
	Equipment  bool
	Skills     bool
}

func (d *Dirty) Any() bool {
	return d.Attributes || d.Items || d.Equipment || d.Skills
}

func (d *Dirty) MarkAttributes() { d.Attributes = true }
func (d *Dirty) MarkItems()      { d.Items = true }
func (d *Dirty) MarkEquipment()  { d.Equipment = true }
func (d *Dirty) MarkSkills()     { d.Skills = true }

// Clear resets all markers after a successful flush.
func (d *Dirty) Clear() {
	d.Attributes = false
	d.Items = false
	d.Equipment = false
	d.Skills = false
}
