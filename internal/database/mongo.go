package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Nombres de las colecciones de MongoDB
const (
	ProductsCollection    = "products"
	CollectionsCollection = "collections"
	ReviewsCollection     = "reviews"
	CartsCollection       = "carts"
	CartItemsCollection   = "cart_items"
	CustomersCollection   = "customers"
	OrdersCollection      = "orders"
	OrderItemsCollection  = "order_items"
)

// Connect abre el cliente y verifica la conexión con un ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Println("connected to MongoDB")
	return client, nil
}

// Indexes devuelve los índices que requiere la API, por colección.
// Los índices únicos sostienen el upsert de líneas de carrito y el get-or-create de clientes.
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CartItemsCollection: {
			{
				Keys:    bson.D{{Key: "cart_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("cart_product_unique"),
			},
		},
		CustomersCollection: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("user_unique"),
			},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "collection_id", Value: 1}}},
			{Keys: bson.D{{Key: "unit_price", Value: 1}}},
			{Keys: bson.D{{Key: "last_update", Value: -1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}}},
		},
		OrderItemsCollection: {
			{Keys: bson.D{{Key: "product_id", Value: 1}}},
			{Keys: bson.D{{Key: "order_id", Value: 1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		},
	}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for name, models := range Indexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
