package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/serializers"
)

// CartHandler solo crea, recupera y borra: los carritos no se listan ni se modifican
type CartHandler struct {
	carts  CartStore
	events events.Publisher
}

func NewCartHandler(carts CartStore, publisher events.Publisher) *CartHandler {
	return &CartHandler{carts: carts, events: publisher}
}

// POST /carts/ (el cuerpo se ignora)
func (h *CartHandler) CreateCart(c *gin.Context) {
	var cart models.Cart
	if err := h.carts.Create(c.Request.Context(), &cart); err != nil {
		respondError(c, err, "cart")
		return
	}

	publish(c, h.events, events.New(events.CartCreated, cart.ID))
	c.JSON(http.StatusCreated, serializers.NewCartOutput(&cart))
}

// GET /carts/:cart_id/
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.carts.FindByID(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		respondError(c, err, "cart")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCartOutput(cart))
}

// DELETE /carts/:cart_id/
func (h *CartHandler) DeleteCart(c *gin.Context) {
	cartID := c.Param("cart_id")
	if err := h.carts.Delete(c.Request.Context(), cartID); err != nil {
		respondError(c, err, "cart")
		return
	}

	publish(c, h.events, events.New(events.CartDeleted, cartID))
	c.Status(http.StatusNoContent)
}
