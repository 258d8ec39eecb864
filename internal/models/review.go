package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ProductID   primitive.ObjectID `bson:"product_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Date        time.Time          `bson:"date"`
}
