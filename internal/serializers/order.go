package serializers

import (
	"time"

	"storefront/internal/models"
)

type OrderItemOutput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderOutput struct {
	ID            string            `json:"id"`
	PlacedAt      time.Time         `json:"placed_at"`
	PaymentStatus string            `json:"payment_status"`
	Items         []OrderItemOutput `json:"items"`
}

type OrderHistoryOutput struct {
	CustomerID string        `json:"customer_id"`
	Orders     []OrderOutput `json:"orders"`
}

func NewOrderHistory(customer *models.Customer, orders []*models.Order) OrderHistoryOutput {
	out := OrderHistoryOutput{
		CustomerID: customer.ID.Hex(),
		Orders:     make([]OrderOutput, 0, len(orders)),
	}
	for _, o := range orders {
		items := make([]OrderItemOutput, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, OrderItemOutput{
				ProductID: item.ProductID.Hex(),
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		out.Orders = append(out.Orders, OrderOutput{
			ID:            o.ID.Hex(),
			PlacedAt:      o.PlacedAt,
			PaymentStatus: o.PaymentStatus,
			Items:         items,
		})
	}
	return out
}
