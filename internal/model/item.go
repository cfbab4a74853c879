package model

// ItemKind distinguishes order items, whose demand must be met exactly, from
// stock items, which are optional fillers bounded by availability.
type ItemKind byte

const (
	KindOrder = ItemKind(iota)
	KindStock
)

func (k ItemKind) String() string {
	if k == KindOrder {
		return "order"
	}
	return "stock"
}

// Item is a piece definition. Identity and equality are based on the code
// alone: two items with equal lengths but different codes are distinct.
type Item struct {
	Code     string
	Length   int
	MaxWidth int // width of the target sheet; bounds the search, not part of identity
	Quantity int // requested (order) or available (stock) quantity
	Kind     ItemKind
	Priority int // informational only, unused by the solving logic
}
