package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

type Options struct {
	Prefix    string
	JWTSecret []byte
	Events    events.Publisher
}

// NewStores crea los repositorios de MongoDB
func NewStores(db *mongo.Database) handlers.Stores {
	return handlers.Stores{
		Products:    repository.NewProductRepository(db),
		Collections: repository.NewCollectionRepository(db),
		Reviews:     repository.NewReviewRepository(db),
		Carts:       repository.NewCartRepository(db),
		CartItems:   repository.NewCartItemRepository(db),
		Customers:   repository.NewCustomerRepository(db),
		Orders:      repository.NewOrderRepository(db),
	}
}

func RegisterRoutes(router *gin.Engine, db *mongo.Database, opts Options) {
	Mount(router, NewStores(db), opts)
}

// Mount registra todas las rutas sobre los stores dados.
// Dos rutas ambiguas hacen que gin entre en pánico al arrancar.
func Mount(router *gin.Engine, stores handlers.Stores, opts Options) {
	serializers.UseJSONFieldNames()

	publisher := opts.Events
	if publisher == nil {
		publisher = events.Noop{}
	}

	products := handlers.NewProductHandler(stores.Products, stores.Collections, stores.Orders, publisher, opts.Prefix)
	collections := handlers.NewCollectionHandler(stores.Collections, publisher)
	reviews := handlers.NewReviewHandler(stores.Reviews, stores.Products, publisher)
	carts := handlers.NewCartHandler(stores.Carts, publisher)
	items := handlers.NewCartItemHandler(stores.Carts, stores.CartItems, stores.Products, publisher)
	customers := handlers.NewCustomerHandler(stores.Customers, stores.Orders, publisher)

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	api := router.Group(opts.Prefix, middleware.Authenticate(opts.JWTSecret))

	p := api.Group("/products", middleware.Gate(middleware.AdminOrReadOnly))
	{
		p.GET("/", products.ListProducts)
		p.POST("/", products.CreateProduct)
		p.GET("/:product_id/", products.GetProduct)
		p.PUT("/:product_id/", products.UpdateProduct)
		p.PATCH("/:product_id/", products.UpdateProduct)
		p.DELETE("/:product_id/", products.DeleteProduct)
	}

	r := api.Group("/products/:product_id/reviews", middleware.Gate(middleware.AllowAny))
	{
		r.GET("/", handlers.Scoped("product_id", reviews.ListReviews))
		r.POST("/", handlers.Scoped("product_id", reviews.CreateReview))
		r.GET("/:review_id/", handlers.Scoped("product_id", reviews.GetReview))
		r.PUT("/:review_id/", handlers.Scoped("product_id", reviews.UpdateReview))
		r.PATCH("/:review_id/", handlers.Scoped("product_id", reviews.UpdateReview))
		r.DELETE("/:review_id/", handlers.Scoped("product_id", reviews.DeleteReview))
	}

	col := api.Group("/collections", middleware.Gate(middleware.AdminOrReadOnly))
	{
		col.GET("/", collections.ListCollections)
		col.POST("/", collections.CreateCollection)
		col.GET("/:collection_id/", collections.GetCollection)
		col.PUT("/:collection_id/", collections.UpdateCollection)
		col.PATCH("/:collection_id/", collections.UpdateCollection)
		col.DELETE("/:collection_id/", collections.DeleteCollection)
	}

	cart := api.Group("/carts", middleware.Gate(middleware.AllowAny))
	{
		cart.POST("/", carts.CreateCart)
		cart.GET("/:cart_id/", carts.GetCart)
		cart.DELETE("/:cart_id/", carts.DeleteCart)
	}

	// sin PUT: una línea solo cambia de cantidad vía PATCH
	item := api.Group("/carts/:cart_id/items", middleware.Gate(middleware.AllowAny))
	{
		item.GET("/", handlers.Scoped("cart_id", items.ListItems))
		item.POST("/", handlers.Scoped("cart_id", items.AddItem))
		item.GET("/:item_id/", handlers.Scoped("cart_id", items.GetItem))
		item.PATCH("/:item_id/", handlers.Scoped("cart_id", items.UpdateItem))
		item.DELETE("/:item_id/", handlers.Scoped("cart_id", items.DeleteItem))
	}

	customerPerms := middleware.Gate(middleware.ModelPermissionsOrAnonReadOnly("store", "customer"))
	historyPerm := middleware.Gate(middleware.HasPermission("store.view_history"))
	authenticated := middleware.Gate(middleware.Authenticated)

	cust := api.Group("/customers")
	{
		cust.GET("/me/", authenticated, customers.Me)
		cust.PUT("/me/", authenticated, customers.Me)

		cust.GET("/", customerPerms, customers.ListCustomers)
		cust.POST("/", customerPerms, customers.CreateCustomer)
		cust.GET("/:customer_id/", customerPerms, customers.GetCustomer)
		cust.PUT("/:customer_id/", customerPerms, customers.UpdateCustomer)
		cust.PATCH("/:customer_id/", customerPerms, customers.UpdateCustomer)
		cust.DELETE("/:customer_id/", customerPerms, customers.DeleteCustomer)
		cust.GET("/:customer_id/history/", historyPerm, customers.History)
	}
}
