package serializers

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestPriceWithTax(t *testing.T) {
	assert.Equal(t, 11.0, PriceWithTax(10))
	assert.Equal(t, 21.99, PriceWithTax(19.99))
}

func TestRequestContextLinks(t *testing.T) {
	req := httptest.NewRequest("GET", "/store/products/?page=2&search=mug", nil)
	req.Host = "shop.example.com"
	req.Header.Set("X-Forwarded-Proto", "https, http")

	rc := FromRequest(req, "/store/")

	assert.Equal(t, "https://shop.example.com/store/collections/abc/", rc.Resource("collections", "abc"))
	assert.Equal(t, "https://shop.example.com/store/products/?page=3&search=mug", rc.Page(3))
	assert.Equal(t, "https://shop.example.com/store/products/?search=mug", rc.Page(1))
}

func TestRequestContextIgnoresUnknownForwardedScheme(t *testing.T) {
	for _, proto := range []string{"javascript", "ftp, https", "data"} {
		req := httptest.NewRequest("GET", "/store/products/", nil)
		req.Host = "shop.example.com"
		req.Header.Set("X-Forwarded-Proto", proto)

		rc := FromRequest(req, "/store")
		assert.Equal(t, "http://shop.example.com/store/collections/1/", rc.Resource("collections", "1"), proto)
	}

	req := httptest.NewRequest("GET", "/store/products/", nil)
	req.Host = "shop.example.com"
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	assert.Equal(t, "https://shop.example.com/store/", FromRequest(req, "/store").Resource())
}

func TestRequestContextTLS(t *testing.T) {
	req := httptest.NewRequest("GET", "/products/", nil)
	req.TLS = &tls.ConnectionState{}

	rc := FromRequest(req, "")
	assert.Equal(t, "https://example.com/products/", rc.Resource("products"))
}

func TestNewProductOutputLinksCollection(t *testing.T) {
	req := httptest.NewRequest("GET", "/store/products/", nil)
	rc := FromRequest(req, "/store")

	collectionID := primitive.NewObjectID()
	p := &models.Product{
		ID:           primitive.NewObjectID(),
		Title:        "Mug",
		UnitPrice:    10,
		CollectionID: collectionID,
		Collection:   &models.CollectionRef{ID: collectionID, Title: "Kitchen"},
	}

	out := NewProductOutput(p, rc)
	require.NotNil(t, out.Collection)
	assert.Equal(t, collectionID.Hex(), out.Collection.ID)
	assert.Equal(t, "Kitchen", out.Collection.Title)
	assert.Equal(t, "http://example.com/store/collections/"+collectionID.Hex()+"/", out.Collection.URL)
	assert.Equal(t, 11.0, out.PriceWithTax)
}

func TestNewProductPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/store/products/?page=2", nil)
	rc := FromRequest(req, "/store")
	products := []*models.Product{{ID: primitive.NewObjectID()}}

	page := NewProductPage(products, 25, 2, 10, rc)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/store/products/?page=3", *page.Next)
	assert.Equal(t, "http://example.com/store/products/", *page.Previous)
	assert.Len(t, page.Results, 1)

	last := NewProductPage(products, 25, 3, 10, rc)
	assert.Nil(t, last.Next)

	first := NewProductPage(nil, 0, 1, 10, rc)
	assert.Nil(t, first.Next)
	assert.Nil(t, first.Previous)
	assert.NotNil(t, first.Results)
}

func TestNewCartOutputTotals(t *testing.T) {
	cart := &models.Cart{
		ID: "c1",
		Items: []models.CartItem{
			{ID: primitive.NewObjectID(), Quantity: 3, Product: &models.ProductSummary{ID: primitive.NewObjectID(), Title: "A", UnitPrice: 0.1}},
			{ID: primitive.NewObjectID(), Quantity: 1, Product: &models.ProductSummary{ID: primitive.NewObjectID(), Title: "B", UnitPrice: 2.5}},
		},
	}

	out := NewCartOutput(cart)
	require.Len(t, out.Items, 2)
	assert.Equal(t, 0.3, out.Items[0].TotalPrice)
	assert.Equal(t, 2.8, out.TotalPrice)
	assert.Equal(t, "A", out.Items[0].Product.Title)
}

func TestCustomerOutputBirthDate(t *testing.T) {
	out := NewCustomerOutput(&models.Customer{ID: primitive.NewObjectID(), UserID: "7", Membership: "G"})
	assert.Nil(t, out.BirthDate)

	out = NewCustomerOutput(&models.Customer{ID: primitive.NewObjectID(), BirthDate: "1990-01-02"})
	require.NotNil(t, out.BirthDate)
	assert.Equal(t, "1990-01-02", *out.BirthDate)
}

func TestCustomerInputApplyDefaultsMembership(t *testing.T) {
	var c models.Customer
	CustomerInput{Phone: "555"}.Apply(&c)
	assert.Equal(t, models.MembershipBronze, c.Membership)
	assert.Equal(t, "555", c.Phone)
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&AddCartItemInput{ProductID: "p"})
	require.Error(t, err)

	fields, ok := ValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"This field is required."}, fields["quantity"])

	err = binding.Validator.ValidateStruct(&CustomerCreateInput{
		UserID:        "1",
		CustomerInput: CustomerInput{Membership: "X", BirthDate: "02/01/1990"},
	})
	require.Error(t, err)

	fields, ok = ValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{`"X" is not a valid choice.`}, fields["membership"])
	assert.Equal(t, []string{"Date has wrong format. Use YYYY-MM-DD."}, fields["birth_date"])
}

func TestValidationErrorsNumericBounds(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&ProductInput{
		Title:        "t",
		Slug:         "t",
		UnitPrice:    0.5,
		Inventory:    -1,
		CollectionID: "c",
	})
	fields, ok := ValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 1."}, fields["unit_price"])
	assert.Equal(t, []string{"Ensure this value is greater than or equal to 0."}, fields["inventory"])
}

func TestValidationErrorsIgnoresOtherErrors(t *testing.T) {
	_, ok := ValidationErrors(assert.AnError)
	assert.False(t, ok)
}
