package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/database"
	"storefront/internal/models"
)

// OrderRepository es de solo lectura; los pedidos los escribe el proceso de compra
type OrderRepository struct {
	orders     *mongo.Collection
	orderItems *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		orders:     db.Collection(database.OrdersCollection),
		orderItems: db.Collection(database.OrderItemsCollection),
	}
}

// CountItemsForProduct cuenta las líneas de pedido que referencian el producto
func (r *OrderRepository) CountItemsForProduct(ctx context.Context, productID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseObjectID(productID)
	if err != nil {
		return 0, err
	}

	n, err := r.orderItems.CountDocuments(ctx, bson.M{"product_id": objID})
	if err != nil {
		return 0, fmt.Errorf("count order items: %w", err)
	}
	return n, nil
}

// ListByCustomer devuelve los pedidos del cliente, del más reciente al más antiguo
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	objID, err := parseObjectID(customerID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.orders.Aggregate(ctx, orderHistoryPipeline(objID))
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func orderHistoryPipeline(customerID interface{}) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"customer_id": customerID}}},
		{{Key: "$sort", Value: bson.D{{Key: "placed_at", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.OrderItemsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "order_id"},
			{Key: "as", Value: "items"},
		}}},
	}
}
