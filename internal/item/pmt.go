package item

// PMT holds the item-definition tables (weapons, guards, units, mags)
// needed by the drop algorithm to customise a generated item.
// This is deliberately the subset of the real PMT format the generation
// algorithm consults (grind/percent bounds, DFP/EVP boost ranges, and the
// star-sorted unit table), not a full item-stat database (stats like base
// ATP/ATA/etc. are a client-side display concern).
type PMT struct {
	// GuardDFPRange[classCode] / EVPRange[classCode] bound the roll for
	// armor/shield boosts.
	GuardDFPRange map[int][2]int
	GuardEVPRange map[int][2]int

	// Units, sorted ascending by Stars, for "pick below unit_level".
	Units []UnitTemplate

	// ToolIsStackable reports whether a tool class code stacks by quantity.
	ToolIsStackable map[int]bool
	// TechDiskToolClass is the tool class code that represents "this is a
	// tech disk, look at the tech index/level instead of a fixed item".
	TechDiskToolClass int
}

// UnitTemplate is one entry of the star-sorted unit table: units sorted
// ascending by star count.
type UnitTemplate struct {
	Code    uint32
	Stars   int
	PlusMinus int // +1, -1, or 0 for a plain variant
}

// NewPMT returns an empty PMT with maps initialized and the mandatory
// fallback unit installed at index 0.
func NewPMT() *PMT {
	return &PMT{
		GuardDFPRange:   make(map[int][2]int),
		GuardEVPRange:   make(map[int][2]int),
		ToolIsStackable: make(map[int]bool),
		Units: []UnitTemplate{
			{Code: 0x030100, Stars: 0, PlusMinus: 0}, // fallback "Knight/Power"
		},
	}
}

// UnitBelow returns the unit template to use for a random draw below
// maxStars, or the index-0 fallback if none qualify. Each call scans the
// whole unit table, so a draw costs time linear in its length; the draw
// does not depend on the table's order.
func (p *PMT) UnitBelow(maxStars int, roll func(n int) int) UnitTemplate {
	var eligible []UnitTemplate
	for _, u := range p.Units {
		if u.Stars < maxStars {
			eligible = append(eligible, u)
		}
	}
	if len(eligible) == 0 {
		return p.Units[0]
	}
	return eligible[roll(len(eligible))]
}
