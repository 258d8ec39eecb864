package serializers

import "storefront/internal/models"

type CollectionInput struct {
	Title string `json:"title" binding:"required,max=255"`
}

type CollectionOutput struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ProductsCount int64  `json:"products_count"`
}

func NewCollectionOutput(c *models.Collection) CollectionOutput {
	return CollectionOutput{
		ID:            c.ID.Hex(),
		Title:         c.Title,
		ProductsCount: c.ProductsCount,
	}
}

func NewCollectionList(collections []*models.Collection) []CollectionOutput {
	out := make([]CollectionOutput, 0, len(collections))
	for _, c := range collections {
		out = append(out, NewCollectionOutput(c))
	}
	return out
}
