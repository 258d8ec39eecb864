package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/serializers"
)

// ReviewHandler atiende /products/:product_id/reviews/; todas las operaciones
// reciben el id del producto de la ruta y nunca del cuerpo.
type ReviewHandler struct {
	reviews  ReviewStore
	products ProductStore
	events   events.Publisher
}

func NewReviewHandler(reviews ReviewStore, products ProductStore, publisher events.Publisher) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, products: products, events: publisher}
}

func (h *ReviewHandler) ListReviews(c *gin.Context, productID string) {
	if _, ok := h.product(c, productID); !ok {
		return
	}

	reviews, err := h.reviews.ListByProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, serializers.NewReviewList(reviews))
}

func (h *ReviewHandler) GetReview(c *gin.Context, productID string) {
	review, err := h.reviews.FindByID(c.Request.Context(), productID, c.Param("review_id"))
	if err != nil {
		respondError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, serializers.NewReviewOutput(review))
}

func (h *ReviewHandler) CreateReview(c *gin.Context, productID string) {
	product, ok := h.product(c, productID)
	if !ok {
		return
	}

	var in serializers.ReviewInput
	if !bindJSON(c, &in) {
		return
	}

	review := models.Review{
		ProductID:   product.ID,
		Name:        in.Name,
		Description: in.Description,
	}
	if err := h.reviews.Create(c.Request.Context(), &review); err != nil {
		respondError(c, err, "review")
		return
	}

	publish(c, h.events, events.Scoped(events.ReviewCreated, productID, review.ID.Hex()))
	c.JSON(http.StatusCreated, serializers.NewReviewOutput(&review))
}

func (h *ReviewHandler) UpdateReview(c *gin.Context, productID string) {
	review, err := h.reviews.FindByID(c.Request.Context(), productID, c.Param("review_id"))
	if err != nil {
		respondError(c, err, "review")
		return
	}

	var in serializers.ReviewInput
	if c.Request.Method == http.MethodPatch {
		in = serializers.ReviewInputFrom(review)
	}
	if !bindJSON(c, &in) {
		return
	}

	review.Name = in.Name
	review.Description = in.Description
	if err := h.reviews.Update(c.Request.Context(), review); err != nil {
		respondError(c, err, "review")
		return
	}
	c.JSON(http.StatusOK, serializers.NewReviewOutput(review))
}

func (h *ReviewHandler) DeleteReview(c *gin.Context, productID string) {
	if err := h.reviews.Delete(c.Request.Context(), productID, c.Param("review_id")); err != nil {
		respondError(c, err, "review")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) product(c *gin.Context, productID string) (*models.Product, bool) {
	product, err := h.products.FindByID(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err, "product")
		return nil, false
	}
	return product, true
}
