// internal/domain/customer/entity.go
package customer

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCustomer = errors.New("customer: invalid")
	ErrNotFound        = errors.New("customer: not found")
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Customer is a registered user of the storefront plus the purchase
// aggregates maintained at order commit.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Role    Role   `json:"role"`

	// Aggregates bumped when an order commits.
	TotalSpent float64 `json:"totalSpent"`
	OrderCount int     `json:"orderCount"`

	RegistrationDate time.Time `json:"registrationDate"`
}

func New(id, name, email, phone string, now time.Time) (Customer, error) {
	c := Customer{
		ID:               strings.TrimSpace(id),
		Name:             strings.TrimSpace(name),
		Email:            strings.ToLower(strings.TrimSpace(email)),
		Phone:            strings.TrimSpace(phone),
		Role:             RoleCustomer,
		RegistrationDate: now.UTC(),
	}
	if err := c.validate(); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (c Customer) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Customer) validate() error {
	if c.ID == "" || c.Email == "" {
		return ErrInvalidCustomer
	}
	if c.TotalSpent < 0 || c.OrderCount < 0 {
		return ErrInvalidCustomer
	}
	return nil
}
