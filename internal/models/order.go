package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending  = "P"
	PaymentComplete = "C"
	PaymentFailed   = "F"
)

// Order es de solo lectura para esta API; los pedidos se crean en otro servicio
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	PlacedAt      time.Time          `bson:"placed_at"`
	PaymentStatus string             `bson:"payment_status"`
	CustomerID    primitive.ObjectID `bson:"customer_id"`

	Items []OrderItem `bson:"items,omitempty"`
}

type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OrderID   primitive.ObjectID `bson:"order_id"`
	ProductID primitive.ObjectID `bson:"product_id"`
	Quantity  int                `bson:"quantity"`
	UnitPrice float64            `bson:"unit_price"`
}
