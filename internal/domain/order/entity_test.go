package order

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func validItems() []ItemSnapshot {
	return []ItemSnapshot{
		{ProductID: "p1", ProductName: "Serum", UnitPrice: 120, Quantity: 2},
	}
}

func validInfo() CustomerInfo {
	return CustomerInfo{Name: "Amina", Email: "Amina@Example.com", Phone: "0600000000", Address: "12 rue X", City: "Casablanca"}
}

func TestNewOrder(t *testing.T) {
	o, err := New("o1", "ORD1-ABC", "u1", validInfo(), validItems(), 240, "Casablanca", 25, "promo10", 24, 241, "cod", testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "PROMO10", o.CouponCode)
	assert.Equal(t, "amina@example.com", o.CustomerInfo.Email)
	assert.Equal(t, testNow, o.CreatedAt)
	assert.Equal(t, 2, o.UnitsSold())
}

func TestNewOrderValidatesTotal(t *testing.T) {
	// total must equal subtotal + delivery - discount
	_, err := New("o1", "ORD1-ABC", "u1", validInfo(), validItems(), 240, "Casablanca", 25, "", 0, 999, "cod", testNow)
	assert.ErrorIs(t, err, ErrInvalidAmounts)

	// rounding tolerance: a centime of float noise is accepted
	_, err = New("o1", "ORD1-ABC", "u1", validInfo(), validItems(), 240, "Casablanca", 25, "", 0, 265.004, "cod", testNow)
	assert.NoError(t, err)
}

func TestNewOrderValidatesInputs(t *testing.T) {
	_, err := New("", "ORD1-ABC", "u1", validInfo(), validItems(), 240, "Z", 0, "", 0, 240, "cod", testNow)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = New("o1", "ORD1-ABC", "u1", CustomerInfo{}, validItems(), 240, "Z", 0, "", 0, 240, "cod", testNow)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	_, err = New("o1", "ORD1-ABC", "u1", validInfo(), nil, 0, "Z", 0, "", 0, 0, "cod", testNow)
	assert.ErrorIs(t, err, ErrInvalidItems)

	bad := []ItemSnapshot{{ProductID: "p1", Quantity: 0, UnitPrice: 10}}
	_, err = New("o1", "ORD1-ABC", "u1", validInfo(), bad, 0, "Z", 0, "", 0, 0, "cod", testNow)
	assert.ErrorIs(t, err, ErrInvalidItemSnapshot)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatus(t *testing.T) {
	o, err := New("o1", "ORD1-ABC", "u1", validInfo(), validItems(), 240, "Z", 0, "", 0, 240, "cod", testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	require.NoError(t, o.SetStatus(StatusDelivered, later))
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, later, o.UpdatedAt)

	// any transition is allowed, including away from delivered
	require.NoError(t, o.SetStatus(StatusCancelled, later))

	assert.ErrorIs(t, o.SetStatus(Status("bogus"), later), ErrInvalidStatus)
}

func TestNewNumber(t *testing.T) {
	n := NewNumber(testNow)
	assert.True(t, strings.HasPrefix(n, "ORD"), n)
	assert.Contains(t, n, "-")

	// two numbers generated for the same instant must differ
	assert.NotEqual(t, n, NewNumber(testNow))
}
