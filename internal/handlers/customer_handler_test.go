package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

func TestMeRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/store/customers/me/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPut, "/store/customers/me/", `{"phone":"1"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/store/customers/me/", "", "JWT not-a-token").Code)
}

func TestMeCreatesCustomerOnce(t *testing.T) {
	f := newFixture(t)
	customer := &models.Customer{ID: primitive.NewObjectID(), UserID: "7", Membership: models.MembershipBronze}

	gomock.InOrder(
		f.customers.EXPECT().GetOrCreateByUser(gomock.Any(), "7").Return(customer, true, nil),
		f.customers.EXPECT().GetOrCreateByUser(gomock.Any(), "7").Return(customer, false, nil),
	)

	first := f.do(http.MethodGet, "/store/customers/me/", "", user(t, "7"))
	require.Equal(t, http.StatusOK, first.Code)
	second := f.do(http.MethodGet, "/store/customers/me/", "", user(t, "7"))
	require.Equal(t, http.StatusOK, second.Code)

	a := decode[serializers.CustomerOutput](t, first)
	b := decode[serializers.CustomerOutput](t, second)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "7", a.UserID)
	assert.Equal(t, "B", a.Membership)
	assert.Nil(t, a.BirthDate)
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	customer := &models.Customer{ID: primitive.NewObjectID(), UserID: "7", Membership: models.MembershipBronze}

	f.customers.EXPECT().GetOrCreateByUser(gomock.Any(), "7").Return(customer, false, nil).Times(2)
	f.customers.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Customer) error {
			assert.Equal(t, "7", c.UserID)
			assert.Equal(t, "555-0100", c.Phone)
			assert.Equal(t, "1990-04-01", c.BirthDate)
			assert.Equal(t, models.MembershipGold, c.Membership)
			return nil
		})

	w := f.do(http.MethodPut, "/store/customers/me/", `{"phone":"555-0100","birth_date":"1990-04-01","membership":"G"}`, user(t, "7"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode[serializers.CustomerOutput](t, w)
	require.NotNil(t, out.BirthDate)
	assert.Equal(t, "1990-04-01", *out.BirthDate)

	w = f.do(http.MethodPut, "/store/customers/me/", `{"membership":"X","birth_date":"01/04/1990"}`, user(t, "7"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[errorBody](t, w).Fields
	assert.Contains(t, fields, "membership")
	assert.Contains(t, fields, "birth_date")
}

func TestCustomerListIsReadableByAnyone(t *testing.T) {
	f := newFixture(t)
	f.customers.EXPECT().List(gomock.Any()).Return([]*models.Customer{
		{ID: primitive.NewObjectID(), UserID: "1", Membership: "S"},
	}, nil)

	w := f.do(http.MethodGet, "/store/customers/", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]serializers.CustomerOutput](t, w), 1)
}

func TestCreateCustomerNeedsAddPermission(t *testing.T) {
	f := newFixture(t)
	body := `{"user_id":"9","phone":"1"}`

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodPost, "/store/customers/", body, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/store/customers/", body, user(t, "2")).Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPost, "/store/customers/", body, user(t, "2", "store.change_customer")).Code)

	f.customers.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Customer) error {
			assert.Equal(t, "9", c.UserID)
			assert.Equal(t, models.MembershipBronze, c.Membership)
			c.ID = primitive.NewObjectID()
			return nil
		})

	w := f.do(http.MethodPost, "/store/customers/", body, user(t, "2", "store.add_customer"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "9", decode[serializers.CustomerOutput](t, w).UserID)
}

func TestCreateCustomerForSameUserTwice(t *testing.T) {
	f := newFixture(t)
	f.customers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repository.ErrDuplicate)

	w := f.do(http.MethodPost, "/store/customers/", `{"user_id":"9"}`, user(t, "2", "store.add_customer"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorBody](t, w).Fields, "user_id")
}

func TestPatchCustomerKeepsUserID(t *testing.T) {
	f := newFixture(t)
	customer := &models.Customer{ID: primitive.NewObjectID(), UserID: "3", Phone: "1", Membership: "S"}

	f.customers.EXPECT().FindByID(gomock.Any(), customer.ID.Hex()).Return(customer, nil)
	f.customers.EXPECT().Update(gomock.Any(), customer).Return(nil)

	w := f.do(http.MethodPatch, "/store/customers/"+customer.ID.Hex()+"/", `{"phone":"2","user_id":"99"}`,
		user(t, "1", "store.change_customer"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode[serializers.CustomerOutput](t, w)
	assert.Equal(t, "3", out.UserID)
	assert.Equal(t, "2", out.Phone)
	assert.Equal(t, "S", out.Membership)
}

func TestDeleteCustomer(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID().Hex()

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/store/customers/"+id+"/", "", user(t, "1", "store.add_customer")).Code)

	f.customers.EXPECT().Delete(gomock.Any(), id).Return(nil)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/store/customers/"+id+"/", "", superuser(t)).Code)
}

func TestCustomerHistory(t *testing.T) {
	f := newFixture(t)
	customer := &models.Customer{ID: primitive.NewObjectID(), UserID: "3", Membership: "B"}
	path := "/store/customers/" + customer.ID.Hex() + "/history/"

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, path, "", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, path, "", user(t, "3")).Code)

	order := &models.Order{
		ID:            primitive.NewObjectID(),
		PlacedAt:      time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		PaymentStatus: models.PaymentComplete,
		CustomerID:    customer.ID,
		Items:         []models.OrderItem{{ProductID: primitive.NewObjectID(), Quantity: 2, UnitPrice: 4.5}},
	}
	f.customers.EXPECT().FindByID(gomock.Any(), customer.ID.Hex()).Return(customer, nil)
	f.orders.EXPECT().ListByCustomer(gomock.Any(), customer.ID.Hex()).Return([]*models.Order{order}, nil)

	w := f.do(http.MethodGet, path, "", user(t, "1", "store.view_history"))
	require.Equal(t, http.StatusOK, w.Code)

	out := decode[serializers.OrderHistoryOutput](t, w)
	assert.Equal(t, customer.ID.Hex(), out.CustomerID)
	require.Len(t, out.Orders, 1)
	assert.Equal(t, "C", out.Orders[0].PaymentStatus)
	assert.Equal(t, 2, out.Orders[0].Items[0].Quantity)
}
