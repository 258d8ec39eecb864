package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/serializers"
)

type CollectionHandler struct {
	collections CollectionStore
	events      events.Publisher
}

func NewCollectionHandler(collections CollectionStore, publisher events.Publisher) *CollectionHandler {
	return &CollectionHandler{collections: collections, events: publisher}
}

// GET /collections/
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.collections.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCollectionList(collections))
}

// GET /collections/:collection_id/
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	collection, err := h.collections.FindByID(c.Request.Context(), c.Param("collection_id"))
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCollectionOutput(collection))
}

// POST /collections/
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var in serializers.CollectionInput
	if !bindJSON(c, &in) {
		return
	}

	collection := models.Collection{Title: in.Title}
	if err := h.collections.Create(c.Request.Context(), &collection); err != nil {
		respondError(c, err, "collection")
		return
	}

	publish(c, h.events, events.New(events.CollectionCreated, collection.ID.Hex()))
	c.JSON(http.StatusCreated, serializers.NewCollectionOutput(&collection))
}

// PUT y PATCH /collections/:collection_id/
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	collection, err := h.collections.FindByID(c.Request.Context(), c.Param("collection_id"))
	if err != nil {
		respondError(c, err, "collection")
		return
	}

	var in serializers.CollectionInput
	if c.Request.Method == http.MethodPatch {
		in.Title = collection.Title
	}
	if !bindJSON(c, &in) {
		return
	}

	collection.Title = in.Title
	if err := h.collections.Update(c.Request.Context(), collection); err != nil {
		respondError(c, err, "collection")
		return
	}

	publish(c, h.events, events.New(events.CollectionUpdated, collection.ID.Hex()))
	c.JSON(http.StatusOK, serializers.NewCollectionOutput(collection))
}

// DELETE /collections/:collection_id/
// Una colección con productos no se borra. Igual que en productos, el recuento y el
// borrado no son atómicos: un producto creado entre ambos queda sin colección.
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	collectionID := c.Param("collection_id")

	n, err := h.collections.CountProducts(c.Request.Context(), collectionID)
	if err != nil {
		respondError(c, err, "collection")
		return
	}
	if n > 0 {
		conflict(c, "Collection cannot be deleted because it includes one or more products.")
		return
	}

	if err := h.collections.Delete(c.Request.Context(), collectionID); err != nil {
		respondError(c, err, "collection")
		return
	}

	publish(c, h.events, events.New(events.CollectionDeleted, collectionID))
	c.Status(http.StatusNoContent)
}
