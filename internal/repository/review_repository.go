package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

// ReviewRepository filtra siempre por producto: una reseña solo existe dentro de su producto
type ReviewRepository struct {
	reviews *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{reviews: db.Collection(database.ReviewsCollection)}
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter, err := reviewScope(productID, "")
	if err != nil {
		return nil, err
	}

	cursor, err := r.reviews.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]*models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, productID, id string) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter, err := reviewScope(productID, id)
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := r.reviews.FindOne(ctx, filter).Decode(&review); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	review.ID = primitive.NewObjectID()
	review.Date = time.Now().UTC()

	if _, err := r.reviews.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	result, err := r.reviews.UpdateOne(ctx,
		bson.M{"_id": review.ID, "product_id": review.ProductID},
		bson.M{"$set": bson.M{"name": review.Name, "description": review.Description}},
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, productID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	filter, err := reviewScope(productID, id)
	if err != nil {
		return err
	}

	result, err := r.reviews.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// reviewScope arma el filtro del producto padre y, si se indica, de la reseña
func reviewScope(productID, id string) (bson.M, error) {
	productObjID, err := parseObjectID(productID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"product_id": productObjID}
	if id != "" {
		objID, err := parseObjectID(id)
		if err != nil {
			return nil, err
		}
		filter["_id"] = objID
	}
	return filter, nil
}
