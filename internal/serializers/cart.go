package serializers

import "storefront/internal/models"

// Cada operación sobre líneas de carrito tiene su propio esquema:
// AddCartItemInput al crear, UpdateCartItemInput al modificar y CartItemOutput al leer.

type AddCartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type SimpleProduct struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
}

type CartItemOutput struct {
	ID         string         `json:"id"`
	Product    *SimpleProduct `json:"product"`
	Quantity   int            `json:"quantity"`
	TotalPrice float64        `json:"total_price"`
}

func NewCartItemOutput(item *models.CartItem) CartItemOutput {
	out := CartItemOutput{
		ID:         item.ID.Hex(),
		Quantity:   item.Quantity,
		TotalPrice: roundPrice(item.TotalPrice()),
	}
	if item.Product != nil {
		out.Product = &SimpleProduct{
			ID:        item.Product.ID.Hex(),
			Title:     item.Product.Title,
			UnitPrice: item.Product.UnitPrice,
		}
	}
	return out
}

func NewCartItemList(items []*models.CartItem) []CartItemOutput {
	out := make([]CartItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, NewCartItemOutput(item))
	}
	return out
}

type CartOutput struct {
	ID         string           `json:"id"`
	Items      []CartItemOutput `json:"items"`
	TotalPrice float64          `json:"total_price"`
}

func NewCartOutput(cart *models.Cart) CartOutput {
	items := make([]CartItemOutput, 0, len(cart.Items))
	for i := range cart.Items {
		items = append(items, NewCartItemOutput(&cart.Items[i]))
	}
	return CartOutput{
		ID:         cart.ID,
		Items:      items,
		TotalPrice: roundPrice(cart.TotalPrice()),
	}
}
