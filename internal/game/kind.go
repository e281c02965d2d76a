package game

// Kind identifies which symbol a target shows.
type Kind int

const (
	KindBlossom Kind = iota
	KindSnowflake
	numKinds
)

// Kinds lists every target kind in display order.
var Kinds = [numKinds]Kind{KindBlossom, KindSnowflake}

// Glyph returns the symbol drawn for the kind.
func (k Kind) Glyph() string {
	switch k {
	case KindBlossom:
		return "🌸"
	case KindSnowflake:
		return "❄️"
	default:
		return "?"
	}
}

func (k Kind) String() string {
	switch k {
	case KindBlossom:
		return "blossom"
	case KindSnowflake:
		return "snowflake"
	default:
		return "unknown"
	}
}

// Tally counts targets per kind.
type Tally [numKinds]int

// Add counts one target of kind k.
func (t *Tally) Add(k Kind) {
	if k >= 0 && k < numKinds {
		t[k]++
	}
}

// Get returns the count for kind k.
func (t Tally) Get(k Kind) int {
	if k < 0 || k >= numKinds {
		return 0
	}
	return t[k]
}

// Zero reports whether every count is zero.
func (t Tally) Zero() bool {
	for _, n := range t {
		if n != 0 {
			return false
		}
	}
	return true
}

// Total returns the sum over all kinds.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}
