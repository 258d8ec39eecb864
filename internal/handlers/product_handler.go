package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

type ProductHandler struct {
	products    ProductStore
	collections CollectionStore
	orders      OrderStore
	events      events.Publisher
	prefix      string
}

func NewProductHandler(products ProductStore, collections CollectionStore, orders OrderStore, publisher events.Publisher, prefix string) *ProductHandler {
	return &ProductHandler{
		products:    products,
		collections: collections,
		orders:      orders,
		events:      publisher,
		prefix:      prefix,
	}
}

// GET /products/
func (h *ProductHandler) ListProducts(c *gin.Context) {
	q, ok := h.productQuery(c)
	if !ok {
		return
	}

	products, total, err := h.products.List(c.Request.Context(), q)
	if errors.Is(err, repository.ErrInvalidID) {
		validationFailed(c, serializers.FieldError("collection_id", "Select a valid choice."))
		return
	}
	if err != nil {
		respondError(c, err, "product")
		return
	}

	if q.Page > 1 && len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
		return
	}

	c.JSON(http.StatusOK, serializers.NewProductPage(products, total, q.Page, q.PageSize, h.requestContext(c)))
}

// GET /products/:product_id/
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.products.FindByID(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, serializers.NewProductOutput(product, h.requestContext(c)))
}

// POST /products/
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in serializers.ProductInput
	if !bindJSON(c, &in) {
		return
	}

	var product models.Product
	if !h.apply(c, in, &product) {
		return
	}

	if err := h.products.Create(c.Request.Context(), &product); err != nil {
		respondError(c, err, "product")
		return
	}

	publish(c, h.events, events.New(events.ProductCreated, product.ID.Hex()))
	c.JSON(http.StatusCreated, serializers.NewProductOutput(&product, h.requestContext(c)))
}

// PUT y PATCH /products/:product_id/
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	product, err := h.products.FindByID(c.Request.Context(), c.Param("product_id"))
	if err != nil {
		respondError(c, err, "product")
		return
	}

	// PATCH parte de los valores actuales; PUT exige el recurso completo
	var in serializers.ProductInput
	if c.Request.Method == http.MethodPatch {
		in = serializers.ProductInputFrom(product)
	}
	if !bindJSON(c, &in) {
		return
	}
	if !h.apply(c, in, product) {
		return
	}

	if err := h.products.Update(c.Request.Context(), product); err != nil {
		respondError(c, err, "product")
		return
	}

	publish(c, h.events, events.New(events.ProductUpdated, product.ID.Hex()))
	c.JSON(http.StatusOK, serializers.NewProductOutput(product, h.requestContext(c)))
}

// DELETE /products/:product_id/
// Un producto con líneas de pedido no se borra. La comprobación y el borrado son
// dos operaciones: una línea de pedido creada entre ambas no se detecta.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("product_id")

	n, err := h.orders.CountItemsForProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "product")
		return
	}
	if n > 0 {
		conflict(c, "Product cannot be deleted because it is associated with an order item.")
		return
	}

	if err := h.products.Delete(c.Request.Context(), productID); err != nil {
		respondError(c, err, "product")
		return
	}

	publish(c, h.events, events.New(events.ProductDeleted, productID))
	c.Status(http.StatusNoContent)
}

// apply vuelca la entrada en el producto y resuelve la colección referenciada
func (h *ProductHandler) apply(c *gin.Context, in serializers.ProductInput, product *models.Product) bool {
	collection, err := h.collections.FindByID(c.Request.Context(), in.CollectionID)
	if repository.IsNotFound(err) {
		validationFailed(c, serializers.FieldError("collection",
			fmt.Sprintf("Invalid pk %q - object does not exist.", in.CollectionID)))
		return false
	}
	if err != nil {
		respondError(c, err, "collection")
		return false
	}

	in.Apply(product)
	product.CollectionID = collection.ID
	product.Collection = &models.CollectionRef{ID: collection.ID, Title: collection.Title}
	return true
}

// productQuery lee filtros, búsqueda, orden y paginación de la query string
func (h *ProductHandler) productQuery(c *gin.Context) (models.ProductQuery, bool) {
	q := models.ProductQuery{
		CollectionID: c.Query("collection_id"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
		Page:         defaultPage,
		PageSize:     defaultPageSize,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid page"})
			return q, false
		}
		q.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size >= 1 && size <= maxPageSize {
		q.PageSize = size
	}

	fields := serializers.FieldErrors{}
	q.PriceGT = parsePrice(c, "unit_price__gt", fields)
	q.PriceLT = parsePrice(c, "unit_price__lt", fields)
	if len(fields) > 0 {
		validationFailed(c, fields)
		return q, false
	}

	return q, true
}

func parsePrice(c *gin.Context, param string, fields serializers.FieldErrors) *float64 {
	raw := c.Query(param)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields.Add(param, "Enter a number.")
		return nil
	}
	return &v
}

func (h *ProductHandler) requestContext(c *gin.Context) serializers.RequestContext {
	return serializers.FromRequest(c.Request, h.prefix)
}
