package item

// LimitsList is the acceptable-item rules table a lobby retains by strong
// reference. An item failing the check is silently dropped and logged by
// the caller.
type LimitsList struct {
	name string
	// allowedCodes, when non-empty, is an allow-list of item[0] 24-bit codes
	// (class+type+subtype, i.e. Dword(0)&0x00FFFFFF). An empty map means
	// "no restriction".
	allowedCodes map[uint32]bool
	// maxStarsByClass bounds PMT star rating per class for the semirare
	// suppression check.
	maxStarsByClass map[Class]int
}

// NewLimitsList creates a limits list with the given name.
func NewLimitsList(name string) *LimitsList {
	return &LimitsList{
		name:            name,
		allowedCodes:    make(map[uint32]bool),
		maxStarsByClass: make(map[Class]int),
	}
}

// Name returns the limits list's identifying name (for logging).
func (l *LimitsList) Name() string { return l.name }

// Allow marks a 24-bit item code as legitimate.
func (l *LimitsList) Allow(code uint32) {
	l.allowedCodes[code] = true
}

// SetMaxStars bounds the PMT star rating permitted for a class.
func (l *LimitsList) SetMaxStars(c Class, stars int) {
	l.maxStarsByClass[c] = stars
}

// Check reports whether it is permitted. A nil LimitsList always
// permits.
func (l *LimitsList) Check(it Item, stars func(Item) int) bool {
	if l == nil {
		return true
	}
	if len(l.allowedCodes) > 0 && !l.allowedCodes[it.Dword(0)&0x00FFFFFF] {
		return false
	}
	if max, ok := l.maxStarsByClass[it.Class()]; ok && stars != nil {
		if stars(it) > max {
			return false
		}
	}
	return true
}
