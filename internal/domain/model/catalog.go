package model

// Variant is a purchasable SKU combination of a product with its own stock
// counter. Stock is the contended resource during checkout finalization.
type Variant struct {
	ID        int64
	ProductID int64
	TenantID  int64
	Name      string
	Price     int64
	Stock     int
}

// Contact is the notification recipient resolved from the customer directory.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
}

// Address is a saved customer shipping address record.
type Address struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	FullName   string
	Line1      string
	Line2      string
	City       string
	Country    string
	Phone      string
}
