package transport

type CartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type DeleteOneFromCartResponse struct {
	ProductID uint `json:"product_id"`
	Deleted   bool `json:"deleted"`
	Quantity  uint `json:"quantity"`
}
