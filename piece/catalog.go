package piece

// Kind identifies one of the seven canonical tetrominoes.
type Kind int

const (
	I Kind = iota
	T
	O
	S
	Z
	L
	J
)

var kindNames = [...]string{"I", "T", "O", "S", "Z", "L", "J"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "?"
	}
	return kindNames[k]
}

// Catalog lists every kind in catalog order.
var Catalog = []Kind{I, T, O, S, Z, L, J}

var shapes = [][][]bool{
	I: {
		{true, true, true, true},
	},
	T: {
		{true, true, true},
		{false, true, false},
	},
	O: {
		{true, true},
		{true, true},
	},
	S: {
		{false, true, true},
		{true, true, false},
	},
	Z: {
		{true, true, false},
		{false, true, true},
	},
	L: {
		{true, false, false},
		{true, true, true},
	},
	J: {
		{false, false, true},
		{true, true, true},
	},
}

// Shape returns a fresh copy of the spawn-orientation matrix for k.
func Shape(k Kind) [][]bool {
	return cloneMatrix(shapes[k])
}

// ParseKind resolves a single-letter kind name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

func cloneMatrix(m [][]bool) [][]bool {
	out := make([][]bool, len(m))
	for i := range m {
		out[i] = make([]bool, len(m[i]))
		copy(out[i], m[i])
	}
	return out
}
