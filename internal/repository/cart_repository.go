package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/database"
	"storefront/internal/models"
)

type CartRepository struct {
	carts     *mongo.Collection
	cartItems *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{
		carts:     db.Collection(database.CartsCollection),
		cartItems: db.Collection(database.CartItemsCollection),
	}
}

func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cart.ID = uuid.NewString()
	cart.CreatedAt = time.Now().UTC()
	cart.Items = nil

	if _, err := r.carts.InsertOne(ctx, cart); err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	cart.Items = []models.CartItem{}
	return nil
}

// FindByID devuelve el carrito con sus líneas y el producto de cada una
func (r *CartRepository) FindByID(ctx context.Context, id string) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cartID, err := parseCartID(id)
	if err != nil {
		return nil, err
	}

	cursor, err := r.carts.Aggregate(ctx, cartPipeline(cartID))
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var cart models.Cart
	if err := cursor.Decode(&cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (r *CartRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cartID, err := parseCartID(id)
	if err != nil {
		return false, nil
	}

	n, err := r.carts.CountDocuments(ctx, bson.M{"_id": cartID})
	if err != nil {
		return false, fmt.Errorf("count carts: %w", err)
	}
	return n > 0, nil
}

// Delete borra el carrito y todas sus líneas
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cartID, err := parseCartID(id)
	if err != nil {
		return err
	}

	result, err := r.carts.DeleteOne(ctx, bson.M{"_id": cartID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.cartItems.DeleteMany(ctx, bson.M{"cart_id": cartID}); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}

// parseCartID normaliza el UUID para que las búsquedas no dependan de mayúsculas
func parseCartID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}

func cartPipeline(cartID string) mongo.Pipeline {
	itemsPipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$cart_id", "$$cid"}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, lookupOne(database.ProductsCollection, "product_id", "product")...)

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": cartID}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.CartItemsCollection},
			{Key: "let", Value: bson.D{{Key: "cid", Value: "$_id"}}},
			{Key: "pipeline", Value: itemsPipeline},
			{Key: "as", Value: "items"},
		}}},
	}
}
