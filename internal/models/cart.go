package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart usa un UUID como identificador para que no sea adivinable
type Cart struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`

	// Items se rellena con $lookup al recuperar el carrito
	Items []CartItem `bson:"items,omitempty"`
}

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CartID    string             `bson:"cart_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`

	Product *ProductSummary `bson:"product,omitempty"`
}

// TotalPrice es cantidad por precio unitario; cero si el producto no está expandido
func (i CartItem) TotalPrice() float64 {
	if i.Product == nil {
		return 0
	}
	return float64(i.Quantity) * i.Product.UnitPrice
}

func (c Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.TotalPrice()
	}
	return total
}
