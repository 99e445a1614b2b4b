package dto

// CartPutRequest upserts one cart line; quantity 0 removes it.
type CartPutRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	VariantID int64 `json:"variant_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// CartLineResponse is one cart position.
type CartLineResponse struct {
	ProductID   int64  `json:"product_id"`
	VariantID   int64  `json:"variant_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// CartResponse is the caller's cart with computed totals.
type CartResponse struct {
	Lines    []CartLineResponse `json:"lines"`
	Subtotal int64              `json:"subtotal"`
	Shipping int64              `json:"shipping"`
	Total    int64              `json:"total"`
}
