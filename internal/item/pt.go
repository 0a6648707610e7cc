package item

// NumWeaponClasses is the count of distinct weapon classes a PT table rates
// (saber/sword/dagger/... families); kept small and named generically since
// the exact per-version class list is a PMT concern, not an algorithmic one.
const NumWeaponClasses = 13

// NumFloors is the number of distinct area/floor slots a PT table indexes.
// PSO areas run from the first floor of Forest through the boss floors;
// 18 covers every episode's longest floor list with room to spare.
const NumFloors = 18

// NumBoxKinds is the six box-drop kinds (weapon, armor, shield, unit, tool,
// meseta).
const NumBoxKinds = 6

// PT is one (episode, difficulty, section_id) parameter table; field
// names follow the on-disk table layout.
type PT struct {
	WeaponRatio   [NumWeaponClasses]int
	WeaponMinRank [NumWeaponClasses]int
	WeaponUpgFloor [NumWeaponClasses]int
	// PowerPattern[classIdx] is indexed by the grind index computed from
	// repeated subtraction of WeaponUpgFloor; value is the grind amount.
	PowerPattern [NumWeaponClasses][10]int

	// PercentPattern[column][row] gives a percentage value selector;
	// A roll picks a row giving a percentage value (row-2)*5.
	PercentPattern [NumWeaponClasses][10]int
	// AreaPattern[slot][area] selects a PercentPattern column.
	AreaPattern [3][NumFloors]int
	// PercentAttachment[*][area] picks which stat (bonus 1..5) a percent
	// slot modifies.
	PercentAttachment [NumWeaponClasses][NumFloors]int

	ElementRanking [NumFloors]int
	ElementProb    [NumFloors]int

	// ArmorRanking[floor][slot] (5 slots) converts via
	// armor_level + floor + slot - 3, clipped to 0.
	ArmorRanking [NumFloors][5]int
	SlotRanking  [NumFloors][5]int

	UnitMaxStars [NumFloors]int

	ToolFrequency [16]int
	TechFrequency [19]int
	TechLevelMin  [NumFloors]int
	TechLevelMax  [NumFloors]int

	EnemyDAR        map[int]int // enemy type -> 0..100 drop-anything rate
	EnemyMesetaMin  map[int]int
	EnemyMesetaMax  map[int]int
	EnemyDropClass  map[int]Class // designated class for "pick one of three paths"

	BoxDropProb  [NumBoxKinds][NumFloors]int
	BoxMesetaMin [NumFloors]int
	BoxMesetaMax [NumFloors]int
}

// NewPT returns a zero-value PT with the lookup maps initialized.
func NewPT() *PT {
	return &PT{
		EnemyDAR:       make(map[int]int),
		EnemyMesetaMin: make(map[int]int),
		EnemyMesetaMax: make(map[int]int),
		EnemyDropClass: make(map[int]Class),
	}
}
