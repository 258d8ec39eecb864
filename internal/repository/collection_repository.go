package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/database"
	"storefront/internal/models"
)

type CollectionRepository struct {
	collections *mongo.Collection
	products    *mongo.Collection
}

func NewCollectionRepository(db *mongo.Database) *CollectionRepository {
	return &CollectionRepository{
		collections: db.Collection(database.CollectionsCollection),
		products:    db.Collection(database.ProductsCollection),
	}
}

// List devuelve todas las colecciones con products_count calculado al vuelo
func (r *CollectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	pipeline := append(mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, productsCountStages()...)

	cursor, err := r.collections.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate collections: %w", err)
	}
	defer cursor.Close(ctx)

	collections := make([]*models.Collection, 0)
	if err := cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *CollectionRepository) FindByID(ctx context.Context, id string) (*models.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": objID}}},
	}, productsCountStages()...)

	cursor, err := r.collections.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var collection models.Collection
	if err := cursor.Decode(&collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	collection.ID = primitive.NewObjectID()
	collection.ProductsCount = 0

	if _, err := r.collections.InsertOne(ctx, collection); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}
	return nil
}

func (r *CollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.collections.UpdateOne(ctx,
		bson.M{"_id": collection.ID},
		bson.M{"$set": bson.M{"title": collection.Title}},
	)
	if err != nil {
		return fmt.Errorf("update collection: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.collections.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountProducts cuenta los productos que referencian la colección
func (r *CollectionRepository) CountProducts(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}
	return r.products.CountDocuments(ctx, bson.M{"collection_id": objID})
}

// productsCountStages añade products_count sin traer los productos al resultado
func productsCountStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.ProductsCollection},
			{Key: "let", Value: bson.D{{Key: "cid", Value: "$_id"}}},
			{Key: "pipeline", Value: mongo.Pipeline{
				{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
					{Key: "$eq", Value: bson.A{"$collection_id", "$$cid"}},
				}}}}},
				{{Key: "$count", Value: "n"}},
			}},
			{Key: "as", Value: "product_counts"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "products_count", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$product_counts.n", 0}}},
				0,
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "product_counts", Value: 0}}}},
	}
}
