package dto

// AdminLoginRequest authenticates the back office.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// InventoryAdjustRequest applies a signed stock delta.
type InventoryAdjustRequest struct {
	VariantID int64  `json:"variant_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
	Note      string `json:"note"`
}

// VariantResponse reflects a variant after an adjustment.
type VariantResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
}
