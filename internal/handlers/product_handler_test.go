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

func sampleCollection() *models.Collection {
	return &models.Collection{ID: primitive.NewObjectID(), Title: "Kitchen", ProductsCount: 1}
}

func sampleProduct(collection *models.Collection) *models.Product {
	return &models.Product{
		ID:           primitive.NewObjectID(),
		Title:        "Mug",
		Slug:         "mug",
		UnitPrice:    10,
		Inventory:    5,
		CollectionID: collection.ID,
		Collection:   &models.CollectionRef{ID: collection.ID, Title: collection.Title},
	}
}

func TestListProductsIsPublic(t *testing.T) {
	f := newFixture(t)
	collection := sampleCollection()
	product := sampleProduct(collection)

	f.products.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q models.ProductQuery) ([]*models.Product, int64, error) {
			assert.Equal(t, collection.ID.Hex(), q.CollectionID)
			require.NotNil(t, q.PriceGT)
			assert.Equal(t, 5.0, *q.PriceGT)
			assert.Nil(t, q.PriceLT)
			assert.Equal(t, "-unit_price", q.Ordering)
			assert.Equal(t, "mug", q.Search)
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 1, q.PageSize)
			return []*models.Product{product}, 3, nil
		})

	w := f.do(http.MethodGet, "/store/products/?collection_id="+collection.ID.Hex()+
		"&unit_price__gt=5&ordering=-unit_price&search=mug&page=2&page_size=1", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	page := decode[serializers.ProductPage](t, w)
	assert.Equal(t, int64(3), page.Count)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Next, "page=3")
	assert.NotContains(t, *page.Previous, "page=")
	require.Len(t, page.Results, 1)
	assert.Equal(t, 11.0, page.Results[0].PriceWithTax)
	assert.Equal(t, "http://example.com/store/collections/"+collection.ID.Hex()+"/", page.Results[0].Collection.URL)
}

func TestListProductsRejectsBadFilters(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/store/products/?unit_price__lt=cheap", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Enter a number."}, decode[errorBody](t, w).Fields["unit_price__lt"])

	w = f.do(http.MethodGet, "/store/products/?page=0", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	f.products.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), repository.ErrInvalidID)
	w = f.do(http.MethodGet, "/store/products/?collection_id=zzz", "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "collection_id")
}

func TestProductWritesRequireAdmin(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID().Hex()
	body := `{"title":"Mug","slug":"mug","unit_price":10,"collection":"x"}`

	// ningún store se toca: el mock falla ante cualquier llamada
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/store/products/", body, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/store/products/", body, user(t, "2")).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/store/products/"+id+"/", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPatch, "/store/products/"+id+"/", body, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/store/products/"+id+"/", "", user(t, "2")).Code)
}

func TestCreateProduct(t *testing.T) {
	f := newFixture(t)
	collection := sampleCollection()

	f.collections.EXPECT().FindByID(gomock.Any(), collection.ID.Hex()).Return(collection, nil)
	f.products.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Product) error {
			assert.Equal(t, "Mug", p.Title)
			assert.Equal(t, 12.35, p.UnitPrice)
			assert.Equal(t, collection.ID, p.CollectionID)
			p.ID = primitive.NewObjectID()
			return nil
		})

	body := `{"title":"Mug","slug":"mug","unit_price":12.349,"inventory":3,"collection":"` + collection.ID.Hex() + `"}`
	w := f.do(http.MethodPost, "/store/products/", body, staff(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	out := decode[serializers.ProductOutput](t, w)
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.Collection)
	assert.Equal(t, "Kitchen", out.Collection.Title)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/store/products/", `{"slug":"mug","unit_price":0,"inventory":-1}`, staff(t))
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := decode[errorBody](t, w).Fields
	assert.Equal(t, []string{"This field is required."}, fields["title"])
	assert.Equal(t, []string{"This field is required."}, fields["unit_price"])
	assert.Equal(t, []string{"This field is required."}, fields["collection"])
	assert.Contains(t, fields, "inventory")
}

func TestCreateProductUnknownCollection(t *testing.T) {
	f := newFixture(t)
	missing := primitive.NewObjectID().Hex()

	f.collections.EXPECT().FindByID(gomock.Any(), missing).Return(nil, repository.ErrNotFound)

	body := `{"title":"Mug","slug":"mug","unit_price":10,"collection":"` + missing + `"}`
	w := f.do(http.MethodPost, "/store/products/", body, staff(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "collection")
}

func TestPatchProductKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	collection := sampleCollection()
	product := sampleProduct(collection)

	f.products.EXPECT().FindByID(gomock.Any(), product.ID.Hex()).Return(product, nil)
	f.collections.EXPECT().FindByID(gomock.Any(), collection.ID.Hex()).Return(collection, nil)
	f.products.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Product) error {
			assert.Equal(t, "Mug", p.Title)
			assert.Equal(t, "mug", p.Slug)
			assert.Equal(t, 20.0, p.UnitPrice)
			assert.Equal(t, 5, p.Inventory)
			return nil
		})

	w := f.do(http.MethodPatch, "/store/products/"+product.ID.Hex()+"/", `{"unit_price":20}`, staff(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 22.0, decode[serializers.ProductOutput](t, w).PriceWithTax)
}

func TestPutProductRequiresFullBody(t *testing.T) {
	f := newFixture(t)
	collection := sampleCollection()
	product := sampleProduct(collection)

	f.products.EXPECT().FindByID(gomock.Any(), product.ID.Hex()).Return(product, nil)

	w := f.do(http.MethodPut, "/store/products/"+product.ID.Hex()+"/", `{"unit_price":20}`, staff(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "title")
}

func TestGetProductNotFound(t *testing.T) {
	f := newFixture(t)
	f.products.EXPECT().FindByID(gomock.Any(), "nope").Return(nil, repository.ErrInvalidID)

	w := f.do(http.MethodGet, "/store/products/nope/", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "product not found", decode[errorBody](t, w).Error)
}

func TestDeleteProductReferencedByOrderItemIsRefused(t *testing.T) {
	f := newFixture(t)
	collection := sampleCollection()
	product := sampleProduct(collection)
	id := product.ID.Hex()

	// Delete no está esperado: si el handler lo llamara el test fallaría
	f.orders.EXPECT().CountItemsForProduct(gomock.Any(), id).Return(int64(2), nil)

	w := f.do(http.MethodDelete, "/store/products/"+id+"/", "", staff(t))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Error, "cannot be deleted")

	f.products.EXPECT().FindByID(gomock.Any(), id).Return(product, nil)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/store/products/"+id+"/", "", "").Code)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID().Hex()

	gomock.InOrder(
		f.orders.EXPECT().CountItemsForProduct(gomock.Any(), id).Return(int64(0), nil),
		f.products.EXPECT().Delete(gomock.Any(), id).Return(nil),
	)

	w := f.do(http.MethodDelete, "/store/products/"+id+"/", "", staff(t))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteProductStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID().Hex()

	f.orders.EXPECT().CountItemsForProduct(gomock.Any(), id).Return(int64(0), assert.AnError)

	w := f.do(http.MethodDelete, "/store/products/"+id+"/", "", staff(t))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[errorBody](t, w).Error)
}
