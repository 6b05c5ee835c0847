// internal/domain/deliveryzone/entity.go
package deliveryzone

import (
	"errors"
	"strings"
)

var (
	ErrInvalidZone = errors.New("deliveryzone: invalid")
	ErrNotFound    = errors.New("deliveryzone: not found")
	ErrInactive    = errors.New("deliveryzone: inactive")
)

// Zone is a named shipping destination grouping with a flat fee.
// Exactly one zone is selected per order.
type Zone struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Cities   []string `json:"cities"`
	Price    float64  `json:"price"`
	IsActive bool     `json:"isActive"`
}

func New(id, name string, cities []string, price float64) (Zone, error) {
	z := Zone{
		ID:       strings.TrimSpace(id),
		Name:     strings.TrimSpace(name),
		Cities:   normalizeCities(cities),
		Price:    price,
		IsActive: true,
	}
	if err := z.validate(); err != nil {
		return Zone{}, err
	}
	return z, nil
}

// Covers reports whether the zone ships to the city (case-insensitive).
func (z Zone) Covers(city string) bool {
	c := strings.ToLower(strings.TrimSpace(city))
	if c == "" {
		return false
	}
	for _, v := range z.Cities {
		if strings.ToLower(v) == c {
			return true
		}
	}
	return false
}

func (z Zone) validate() error {
	if z.ID == "" || z.Name == "" {
		return ErrInvalidZone
	}
	if z.Price < 0 {
		return ErrInvalidZone
	}
	return nil
}

func normalizeCities(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
