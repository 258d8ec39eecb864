package serializers

import "storefront/internal/models"

type CustomerInput struct {
	Phone      string `json:"phone" binding:"max=255"`
	BirthDate  string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Membership string `json:"membership" binding:"omitempty,oneof=B S G"`
}

// CustomerCreateInput lo usa el alta administrativa, que sí indica la identidad
type CustomerCreateInput struct {
	UserID string `json:"user_id" binding:"required"`
	CustomerInput
}

func CustomerInputFrom(c *models.Customer) CustomerInput {
	return CustomerInput{Phone: c.Phone, BirthDate: c.BirthDate, Membership: c.Membership}
}

func (in CustomerInput) Apply(c *models.Customer) {
	c.Phone = in.Phone
	c.BirthDate = in.BirthDate
	c.Membership = in.Membership
	if c.Membership == "" {
		c.Membership = models.MembershipBronze
	}
}

type CustomerOutput struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Phone      string  `json:"phone"`
	BirthDate  *string `json:"birth_date"`
	Membership string  `json:"membership"`
}

func NewCustomerOutput(c *models.Customer) CustomerOutput {
	out := CustomerOutput{
		ID:         c.ID.Hex(),
		UserID:     c.UserID,
		Phone:      c.Phone,
		Membership: c.Membership,
	}
	if c.BirthDate != "" {
		birthDate := c.BirthDate
		out.BirthDate = &birthDate
	}
	return out
}

func NewCustomerList(customers []*models.Customer) []CustomerOutput {
	out := make([]CustomerOutput, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerOutput(c))
	}
	return out
}
