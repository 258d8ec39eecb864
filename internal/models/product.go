package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product representa un producto del catálogo
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Slug         string             `bson:"slug"`
	Description  string             `bson:"description,omitempty"`
	UnitPrice    float64            `bson:"unit_price"`
	Inventory    int                `bson:"inventory"`
	LastUpdate   time.Time          `bson:"last_update"`
	CollectionID primitive.ObjectID `bson:"collection_id"`

	// Collection se rellena con $lookup, no se persiste
	Collection *CollectionRef `bson:"collection,omitempty"`
}

// CollectionRef es la vista reducida de una colección embebida en un producto
type CollectionRef struct {
	ID    primitive.ObjectID `bson:"_id"`
	Title string             `bson:"title"`
}

// ProductSummary es la vista de producto que se expande en las líneas del carrito
type ProductSummary struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	UnitPrice float64            `bson:"unit_price"`
}

// ProductQuery agrupa filtros, búsqueda, orden y paginación del listado
type ProductQuery struct {
	CollectionID string
	PriceGT      *float64
	PriceLT      *float64
	Search       string
	Ordering     string
	Page         int
	PageSize     int
}
