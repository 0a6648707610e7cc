package item

// RTEntry is one row of a rare-drop table.
type RTEntry struct {
	// RTIndex identifies which enemy or box this row rates; -1 for box rows
	// addressed by (kind, floor) instead (see RT.BoxEntry).
	RTIndex int
	Prob    float64 // 0..1
	// ItemCode is the 24-bit item[0] payload (class+type+subtype) to emit
	// when this row's rare triggers, before class-specific customisation.
	ItemCode uint32
}

// RT is one rare-drop table, keyed per (difficulty, section_id) the same way
// PT is.
type RT struct {
	// Enemies maps rt_index to its rare row.
	Enemies map[int]RTEntry
	// Boxes maps floor to its rare row.
	Boxes map[int]RTEntry
}

// NewRT returns an empty RT table.
func NewRT() *RT {
	return &RT{Enemies: make(map[int]RTEntry), Boxes: make(map[int]RTEntry)}
}

// EnemyEntry looks up the rare row for an enemy by rt_index.
func (rt *RT) EnemyEntry(rtIndex int) (RTEntry, bool) {
	e, ok := rt.Enemies[rtIndex]
	return e, ok
}

// BoxEntry looks up the rare row for a box by floor.
func (rt *RT) BoxEntry(floor int) (RTEntry, bool) {
	e, ok := rt.Boxes[floor]
	return e, ok
}
