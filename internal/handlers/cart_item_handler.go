package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

// CartItemHandler atiende /carts/:cart_id/items/. El carrito siempre sale de la ruta,
// así que una línea de otro carrito nunca se ve ni se modifica desde aquí.
type CartItemHandler struct {
	carts    CartStore
	items    CartItemStore
	products ProductStore
	events   events.Publisher
}

func NewCartItemHandler(carts CartStore, items CartItemStore, products ProductStore, publisher events.Publisher) *CartItemHandler {
	return &CartItemHandler{carts: carts, items: items, products: products, events: publisher}
}

func (h *CartItemHandler) ListItems(c *gin.Context, cartID string) {
	if !h.cartExists(c, cartID) {
		return
	}

	items, err := h.items.ListByCart(c.Request.Context(), cartID)
	if err != nil {
		respondError(c, err, "cart item")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCartItemList(items))
}

func (h *CartItemHandler) GetItem(c *gin.Context, cartID string) {
	item, err := h.items.FindByID(c.Request.Context(), cartID, c.Param("item_id"))
	if err != nil {
		respondError(c, err, "cart item")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCartItemOutput(item))
}

// AddItem usa el esquema de alta (producto + cantidad). Si el producto ya está
// en el carrito se incrementa su línea en lugar de crear otra.
func (h *CartItemHandler) AddItem(c *gin.Context, cartID string) {
	if !h.cartExists(c, cartID) {
		return
	}

	var in serializers.AddCartItemInput
	if !bindJSON(c, &in) {
		return
	}

	if _, err := h.products.FindByID(c.Request.Context(), in.ProductID); err != nil {
		if repository.IsNotFound(err) {
			validationFailed(c, serializers.FieldError("product_id", "No product with the given ID was found."))
			return
		}
		respondError(c, err, "product")
		return
	}

	item, err := h.items.Add(c.Request.Context(), cartID, in.ProductID, in.Quantity)
	if err != nil {
		respondError(c, err, "cart item")
		return
	}

	publish(c, h.events, events.Scoped(events.CartItemAdded, cartID, item.ID.Hex()))
	c.JSON(http.StatusCreated, serializers.NewCartItemOutput(item))
}

// UpdateItem usa el esquema de modificación: solo la cantidad
func (h *CartItemHandler) UpdateItem(c *gin.Context, cartID string) {
	itemID := c.Param("item_id")
	if _, err := h.items.FindByID(c.Request.Context(), cartID, itemID); err != nil {
		respondError(c, err, "cart item")
		return
	}

	var in serializers.UpdateCartItemInput
	if !bindJSON(c, &in) {
		return
	}

	item, err := h.items.UpdateQuantity(c.Request.Context(), cartID, itemID, in.Quantity)
	if err != nil {
		respondError(c, err, "cart item")
		return
	}

	publish(c, h.events, events.Scoped(events.CartItemUpdated, cartID, itemID))
	c.JSON(http.StatusOK, serializers.NewCartItemOutput(item))
}

func (h *CartItemHandler) DeleteItem(c *gin.Context, cartID string) {
	itemID := c.Param("item_id")
	if err := h.items.Delete(c.Request.Context(), cartID, itemID); err != nil {
		respondError(c, err, "cart item")
		return
	}

	publish(c, h.events, events.Scoped(events.CartItemRemoved, cartID, itemID))
	c.Status(http.StatusNoContent)
}

func (h *CartItemHandler) cartExists(c *gin.Context, cartID string) bool {
	ok, err := h.carts.Exists(c.Request.Context(), cartID)
	if err != nil {
		respondError(c, err, "cart")
		return false
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return false
	}
	return true
}
