package scroll

// Kind is the scroll input device class
type Kind uint8

const (
	KindWheel Kind = iota
	KindTouch
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindTouch:
		return "touch"
	case KindKey:
		return "key"
	default:
		return "wheel"
	}
}

// Edge is a document boundary jump
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
)

// Input is one scroll gesture step
// Delta is in rows, positive scrolls down; X and Y are the pointer position in
// viewport cells, used to find excluded regions under the pointer
// Key input carries a position only when Pointer is set
type Input struct {
	Kind    Kind
	Delta   float64
	Pages   float64
	Edge    Edge
	X, Y    float64
	Pointer bool
}

// Source delivers scroll input
type Source interface {
	OnInput(fn func(Input)) (cancel func())
}
