package domain

// StockLevel is the display classification of an item's quantity.
type StockLevel string

const (
	OutOfStock StockLevel = "OUT_OF_STOCK"
	LowStock   StockLevel = "LOW_STOCK"
	InStock    StockLevel = "IN_STOCK"
)

// ClassifyStock maps a quantity and minimum threshold to a display level.
// Every badge in the admin and vendor views goes through this one function
// so the two consoles can never disagree about the same item.
func ClassifyStock(qty, minThreshold int) StockLevel {
	switch {
	case qty <= 0:
		return OutOfStock
	case qty <= minThreshold:
		return LowStock
	default:
		return InStock
	}
}
