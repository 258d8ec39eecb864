package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"storefront/internal/database"
	"storefront/internal/models"
)

// Campos por los que se permite ordenar el listado
var productOrderingFields = map[string]string{
	"unit_price":  "unit_price",
	"last_update": "last_update",
}

type ProductRepository struct {
	products  *mongo.Collection
	reviews   *mongo.Collection
	cartItems *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		products:  db.Collection(database.ProductsCollection),
		reviews:   db.Collection(database.ReviewsCollection),
		cartItems: db.Collection(database.CartItemsCollection),
	}
}

// List devuelve una página de productos y el total que cumple los filtros
func (r *ProductRepository) List(ctx context.Context, q models.ProductQuery) ([]*models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	filter, err := productFilter(q)
	if err != nil {
		return nil, 0, err
	}

	var (
		products []*models.Product
		total    int64
	)

	// Contar total en paralelo
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.products.CountDocuments(gctx, filter)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		cursor, err := r.products.Aggregate(gctx, productListPipeline(filter, q))
		if err != nil {
			return fmt.Errorf("aggregate products: %w", err)
		}
		defer cursor.Close(gctx)

		products = make([]*models.Product, 0)
		return cursor.All(gctx, &products)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": objID}}},
	}, lookupOne(database.CollectionsCollection, "collection_id", "collection")...)

	cursor, err := r.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var product models.Product
	if err := cursor.Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	product.LastUpdate = time.Now().UTC()

	// la referencia expandida no se guarda
	ref := product.Collection
	product.Collection = nil
	defer func() { product.Collection = ref }()

	if _, err := r.products.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.LastUpdate = time.Now().UTC()

	result, err := r.products.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": bson.M{
		"title":         product.Title,
		"slug":          product.Slug,
		"description":   product.Description,
		"unit_price":    product.UnitPrice,
		"inventory":     product.Inventory,
		"collection_id": product.CollectionID,
		"last_update":   product.LastUpdate,
	}})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete borra el producto junto con sus reseñas y las líneas de carrito que lo referencian
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := parseObjectID(id)
	if err != nil {
		return err
	}

	result, err := r.products.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	if _, err := r.reviews.DeleteMany(ctx, bson.M{"product_id": objID}); err != nil {
		return fmt.Errorf("delete product reviews: %w", err)
	}
	if _, err := r.cartItems.DeleteMany(ctx, bson.M{"product_id": objID}); err != nil {
		return fmt.Errorf("delete product cart items: %w", err)
	}
	return nil
}

// productFilter construye el filtro de MongoDB a partir de la consulta
func productFilter(q models.ProductQuery) (bson.M, error) {
	filter := bson.M{}

	if q.CollectionID != "" {
		objID, err := parseObjectID(q.CollectionID)
		if err != nil {
			return nil, err
		}
		filter["collection_id"] = objID
	}

	price := bson.M{}
	if q.PriceGT != nil {
		price["$gt"] = *q.PriceGT
	}
	if q.PriceLT != nil {
		price["$lt"] = *q.PriceLT
	}
	if len(price) > 0 {
		filter["unit_price"] = price
	}

	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	return filter, nil
}

// productSort traduce "campo" o "-campo"; los campos desconocidos se ignoran
func productSort(ordering string) bson.D {
	sort := bson.D{}
	for _, part := range strings.Split(ordering, ",") {
		part = strings.TrimSpace(part)
		order := 1
		if strings.HasPrefix(part, "-") {
			order = -1
			part = part[1:]
		}
		field, ok := productOrderingFields[part]
		if !ok {
			continue
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	// orden estable entre páginas
	return append(sort, bson.E{Key: "_id", Value: 1})
}

func productListPipeline(filter bson.M, q models.ProductQuery) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: productSort(q.Ordering)}},
	}
	if q.Page > 0 && q.PageSize > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: int64((q.Page - 1) * q.PageSize)}},
			bson.D{{Key: "$limit", Value: int64(q.PageSize)}},
		)
	}
	return append(pipeline, lookupOne(database.CollectionsCollection, "collection_id", "collection")...)
}
