package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

// CartItemRepository opera siempre dentro de un carrito concreto
type CartItemRepository struct {
	cartItems *mongo.Collection
}

func NewCartItemRepository(db *mongo.Database) *CartItemRepository {
	return &CartItemRepository{cartItems: db.Collection(database.CartItemsCollection)}
}

func (r *CartItemRepository) ListByCart(ctx context.Context, cartID string) ([]*models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter, err := cartItemScope(cartID, "")
	if err != nil {
		return nil, err
	}

	cursor, err := r.cartItems.Aggregate(ctx, cartItemPipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("aggregate cart items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*models.CartItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartItemRepository) FindByID(ctx context.Context, cartID, id string) (*models.CartItem, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter, err := cartItemScope(cartID, id)
	if err != nil {
		return nil, err
	}

	cursor, err := r.cartItems.Aggregate(ctx, cartItemPipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var item models.CartItem
	if err := cursor.Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Add suma la cantidad a la línea del producto en el carrito o la crea si no existe.
// Es una sola operación atómica apoyada en el índice único (cart_id, product_id).
func (r *CartItemRepository) Add(ctx context.Context, cartID, productID string, quantity int) (*models.CartItem, error) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cid, err := parseCartID(cartID)
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(productID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"cart_id": cid, "product_id": pid}
	update := bson.M{"$inc": bson.M{"quantity": quantity}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var item models.CartItem
	err = r.cartItems.FindOneAndUpdate(writeCtx, filter, update, opts).Decode(&item)
	if mongo.IsDuplicateKeyError(err) {
		// dos upserts simultáneos: el segundo ya encuentra la línea
		err = r.cartItems.FindOneAndUpdate(writeCtx, filter, update, opts).Decode(&item)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	return r.FindByID(ctx, cid, item.ID.Hex())
}

func (r *CartItemRepository) UpdateQuantity(ctx context.Context, cartID, id string, quantity int) (*models.CartItem, error) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter, err := cartItemScope(cartID, id)
	if err != nil {
		return nil, err
	}

	result, err := r.cartItems.UpdateOne(writeCtx, filter, bson.M{"$set": bson.M{"quantity": quantity}})
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, cartID, id)
}

func (r *CartItemRepository) Delete(ctx context.Context, cartID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter, err := cartItemScope(cartID, id)
	if err != nil {
		return err
	}

	result, err := r.cartItems.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func cartItemScope(cartID, id string) (bson.M, error) {
	cid, err := parseCartID(cartID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"cart_id": cid}
	if id != "" {
		objID, err := parseObjectID(id)
		if err != nil {
			return nil, err
		}
		filter["_id"] = objID
	}
	return filter, nil
}

func cartItemPipeline(filter bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	return append(pipeline, lookupOne(database.ProductsCollection, "product_id", "product")...)
}
