package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Collection struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Title string             `bson:"title"`

	// ProductsCount se calcula en la agregación, no se persiste
	ProductsCount int64 `bson:"products_count,omitempty"`
}
