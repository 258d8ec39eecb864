package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

func TestListReviewsScopedToProduct(t *testing.T) {
	f := newFixture(t)
	product := sampleProduct(sampleCollection())
	id := product.ID.Hex()

	f.products.EXPECT().FindByID(gomock.Any(), id).Return(product, nil)
	f.reviews.EXPECT().ListByProduct(gomock.Any(), id).Return([]*models.Review{
		{ID: primitive.NewObjectID(), ProductID: product.ID, Name: "Ana", Description: "Great"},
	}, nil)

	w := f.do(http.MethodGet, "/store/products/"+id+"/reviews/", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[[]serializers.ReviewOutput](t, w)
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].ProductID)
}

func TestCreateReviewUsesProductFromPath(t *testing.T) {
	f := newFixture(t)
	product := sampleProduct(sampleCollection())
	other := primitive.NewObjectID().Hex()

	f.products.EXPECT().FindByID(gomock.Any(), product.ID.Hex()).Return(product, nil)
	f.reviews.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Review) error {
			assert.Equal(t, product.ID, r.ProductID)
			r.ID = primitive.NewObjectID()
			return nil
		})

	// anónimo: las reseñas admiten cualquier usuario
	body := `{"name":"Ana","description":"Great","product_id":"` + other + `"}`
	w := f.do(http.MethodPost, "/store/products/"+product.ID.Hex()+"/reviews/", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, product.ID.Hex(), decode[serializers.ReviewOutput](t, w).ProductID)
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	f := newFixture(t)
	missing := primitive.NewObjectID().Hex()

	f.products.EXPECT().FindByID(gomock.Any(), missing).Return(nil, repository.ErrNotFound)

	w := f.do(http.MethodPost, "/store/products/"+missing+"/reviews/", `{"name":"Ana","description":"x"}`, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", decode[errorBody](t, w).Error)
}

func TestReviewFromAnotherProductIsNotFound(t *testing.T) {
	f := newFixture(t)
	productID := primitive.NewObjectID().Hex()
	reviewID := primitive.NewObjectID().Hex()

	f.reviews.EXPECT().FindByID(gomock.Any(), productID, reviewID).Return(nil, repository.ErrNotFound)
	f.reviews.EXPECT().Delete(gomock.Any(), productID, reviewID).Return(repository.ErrNotFound)

	path := "/store/products/" + productID + "/reviews/" + reviewID + "/"
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, "", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, path, "", "").Code)
}

func TestPatchReview(t *testing.T) {
	f := newFixture(t)
	review := &models.Review{ID: primitive.NewObjectID(), ProductID: primitive.NewObjectID(), Name: "Ana", Description: "Great"}
	productID := review.ProductID.Hex()

	f.reviews.EXPECT().FindByID(gomock.Any(), productID, review.ID.Hex()).Return(review, nil)
	f.reviews.EXPECT().Update(gomock.Any(), review).Return(nil)

	w := f.do(http.MethodPatch, "/store/products/"+productID+"/reviews/"+review.ID.Hex()+"/", `{"description":"Meh"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[serializers.ReviewOutput](t, w)
	assert.Equal(t, "Ana", out.Name)
	assert.Equal(t, "Meh", out.Description)
}
