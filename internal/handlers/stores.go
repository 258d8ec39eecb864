package handlers

//go:generate mockgen -source=stores.go -destination=mocks/mock_stores.go -package=mocks

import (
	"context"

	"storefront/internal/models"
)

// Los handlers dependen de estas interfaces; las implementaciones de MongoDB viven en repository.
// Los identificadores llegan tal cual de la ruta y el store devuelve ErrInvalidID si no son válidos.

type ProductStore interface {
	List(ctx context.Context, q models.ProductQuery) ([]*models.Product, int64, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type CollectionStore interface {
	List(ctx context.Context) ([]*models.Collection, error)
	FindByID(ctx context.Context, id string) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id string) error
	CountProducts(ctx context.Context, id string) (int64, error)
}

type ReviewStore interface {
	ListByProduct(ctx context.Context, productID string) ([]*models.Review, error)
	FindByID(ctx context.Context, productID, id string) (*models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, productID, id string) error
}

type CartStore interface {
	Create(ctx context.Context, cart *models.Cart) error
	FindByID(ctx context.Context, id string) (*models.Cart, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type CartItemStore interface {
	ListByCart(ctx context.Context, cartID string) ([]*models.CartItem, error)
	FindByID(ctx context.Context, cartID, id string) (*models.CartItem, error)
	// Add suma quantity a la línea existente del producto o crea una nueva, de forma atómica
	Add(ctx context.Context, cartID, productID string, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID, id string, quantity int) (*models.CartItem, error)
	Delete(ctx context.Context, cartID, id string) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]*models.Customer, error)
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id string) error
	GetOrCreateByUser(ctx context.Context, userID string) (*models.Customer, bool, error)
}

type OrderStore interface {
	CountItemsForProduct(ctx context.Context, productID string) (int64, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Order, error)
}

// Stores agrupa los stores que necesita la API
type Stores struct {
	Products    ProductStore
	Collections CollectionStore
	Reviews     ReviewStore
	Carts       CartStore
	CartItems   CartItemStore
	Customers   CustomerStore
	Orders      OrderStore
}
