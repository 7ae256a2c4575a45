package domain

type CartLine struct {
	ID        string
	Name      string
	UnitPrice float64
	Quantity  int
	Category  string
}

type CartSummary struct {
	Lines     []CartLine
	ItemCount int
	Subtotal  string // decimal with two fraction digits, EUR
}
