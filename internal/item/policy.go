package item

// QuestDropPolicy overrides how an enemy type drops when a quest has
// customised it.
type QuestDropPolicy int

const (
	// PolicyDefault applies no override; the normal algorithm runs.
	PolicyDefault QuestDropPolicy = iota
	PolicyNothing
	PolicyNoRare
	PolicyRareOnly
	PolicyRareAndSemirare
	PolicyFree
)

// EnemyInfo is the read-only view of an enemy the drop algorithm needs.
// Mutable per-entity state (DropDone, KilledBy) is owned by internal/mapmodel
// and never touched here; the caller applies the result.
type EnemyInfo struct {
	RTIndex int
	Type    int // PT table enemy-type key
	Area    int // current floor index
}

// BoxInfo is the read-only view of a box the drop algorithm needs.
type BoxInfo struct {
	Area int
	// Fixed/FixedIsMeseta/EncodedClass/RawDwords model a box's on-map fixed
	// drop encoding.
	Fixed          bool
	FixedIsMeseta  bool
	EncodedClass   Class
	RawDwords      [4]uint32
}

// Roller is the subset of internal/rng.MT19937 the drop algorithm needs;
// an interface so tests can script exact rolls.
type Roller interface {
	Intn(n int) int
	Float64() float64
}
