package serializers

import (
	"time"

	"storefront/internal/models"
)

// ReviewInput no acepta product_id: el producto sale de la ruta
type ReviewInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
}

func ReviewInputFrom(r *models.Review) ReviewInput {
	return ReviewInput{Name: r.Name, Description: r.Description}
}

type ReviewOutput struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func NewReviewOutput(r *models.Review) ReviewOutput {
	return ReviewOutput{
		ID:          r.ID.Hex(),
		ProductID:   r.ProductID.Hex(),
		Date:        r.Date,
		Name:        r.Name,
		Description: r.Description,
	}
}

func NewReviewList(reviews []*models.Review) []ReviewOutput {
	out := make([]ReviewOutput, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, NewReviewOutput(r))
	}
	return out
}
