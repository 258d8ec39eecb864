package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/serializers"
)

type CustomerHandler struct {
	customers CustomerStore
	orders    OrderStore
	events    events.Publisher
}

func NewCustomerHandler(customers CustomerStore, orders OrderStore, publisher events.Publisher) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders, events: publisher}
}

// GET /customers/
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "customer")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCustomerList(customers))
}

// GET /customers/:customer_id/
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.FindByID(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err, "customer")
		return
	}
	c.JSON(http.StatusOK, serializers.NewCustomerOutput(customer))
}

// POST /customers/
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var in serializers.CustomerCreateInput
	if !bindJSON(c, &in) {
		return
	}

	customer := models.Customer{UserID: in.UserID}
	in.Apply(&customer)

	err := h.customers.Create(c.Request.Context(), &customer)
	if errors.Is(err, repository.ErrDuplicate) {
		validationFailed(c, serializers.FieldError("user_id", "customer with this user already exists."))
		return
	}
	if err != nil {
		respondError(c, err, "customer")
		return
	}

	publish(c, h.events, events.New(events.CustomerCreated, customer.ID.Hex()))
	c.JSON(http.StatusCreated, serializers.NewCustomerOutput(&customer))
}

// PUT y PATCH /customers/:customer_id/
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	customer, err := h.customers.FindByID(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err, "customer")
		return
	}
	h.update(c, customer)
}

// DELETE /customers/:customer_id/
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	customerID := c.Param("customer_id")
	if err := h.customers.Delete(c.Request.Context(), customerID); err != nil {
		respondError(c, err, "customer")
		return
	}

	publish(c, h.events, events.New(events.CustomerDeleted, customerID))
	c.Status(http.StatusNoContent)
}

// GET /customers/:customer_id/history/
func (h *CustomerHandler) History(c *gin.Context) {
	customer, err := h.customers.FindByID(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err, "customer")
		return
	}

	orders, err := h.orders.ListByCustomer(c.Request.Context(), customer.ID.Hex())
	if err != nil {
		respondError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, serializers.NewOrderHistory(customer, orders))
}

// GET y PUT /customers/me/
// El cliente del usuario autenticado se crea la primera vez que se consulta.
func (h *CustomerHandler) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
		return
	}

	customer, created, err := h.customers.GetOrCreateByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err, "customer")
		return
	}
	if created {
		publish(c, h.events, events.New(events.CustomerCreated, customer.ID.Hex()))
	}

	if c.Request.Method == http.MethodPut {
		h.update(c, customer)
		return
	}
	c.JSON(http.StatusOK, serializers.NewCustomerOutput(customer))
}

func (h *CustomerHandler) update(c *gin.Context, customer *models.Customer) {
	var in serializers.CustomerInput
	if c.Request.Method == http.MethodPatch {
		in = serializers.CustomerInputFrom(customer)
	}
	if !bindJSON(c, &in) {
		return
	}

	in.Apply(customer)
	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		respondError(c, err, "customer")
		return
	}

	publish(c, h.events, events.New(events.CustomerUpdated, customer.ID.Hex()))
	c.JSON(http.StatusOK, serializers.NewCustomerOutput(customer))
}
