package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"storefront/internal/handlers"
	"storefront/internal/handlers/mocks"
	"storefront/internal/middleware"
	"storefront/internal/routes"
)

var secret = []byte("handlers-test-secret")

type fixture struct {
	t           *testing.T
	products    *mocks.MockProductStore
	collections *mocks.MockCollectionStore
	reviews     *mocks.MockReviewStore
	carts       *mocks.MockCartStore
	cartItems   *mocks.MockCartItemStore
	customers   *mocks.MockCustomerStore
	orders      *mocks.MockOrderStore
	router      *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	f := &fixture{
		t:           t,
		products:    mocks.NewMockProductStore(ctrl),
		collections: mocks.NewMockCollectionStore(ctrl),
		reviews:     mocks.NewMockReviewStore(ctrl),
		carts:       mocks.NewMockCartStore(ctrl),
		cartItems:   mocks.NewMockCartItemStore(ctrl),
		customers:   mocks.NewMockCustomerStore(ctrl),
		orders:      mocks.NewMockOrderStore(ctrl),
		router:      gin.New(),
	}

	routes.Mount(f.router, handlers.Stores{
		Products:    f.products,
		Collections: f.collections,
		Reviews:     f.reviews,
		Carts:       f.carts,
		CartItems:   f.cartItems,
		Customers:   f.customers,
		Orders:      f.orders,
	}, routes.Options{Prefix: "/store", JWTSecret: secret})

	return f
}

// do lanza la petición; auth es la cabecera Authorization completa o vacía
func (f *fixture) do(method, path, body, auth string) *httptest.ResponseRecorder {
	f.t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func authHeader(t *testing.T, claims middleware.Claims) string {
	t.Helper()
	signed, err := middleware.SignToken(claims, secret)
	require.NoError(t, err)
	return "JWT " + signed
}

func staff(t *testing.T) string {
	return authHeader(t, middleware.Claims{UserID: "1", IsStaff: true})
}

func superuser(t *testing.T) string {
	return authHeader(t, middleware.Claims{UserID: "1", IsSuperuser: true})
}

func user(t *testing.T, id string, perms ...string) string {
	return authHeader(t, middleware.Claims{UserID: id, Permissions: perms})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields"`
}

func TestUnknownRouteAndTrailingSlash(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/store/nothing/", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "not found", decode[errorBody](t, w).Error)

	w = f.do(http.MethodGet, "/store/collections", "", "")
	require.Equal(t, http.StatusMovedPermanently, w.Code)
	require.Equal(t, "/store/collections/", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
}
