// internal/adapters/out/firestore/customer_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	customerdom "simo/internal/domain/customer"
)

const customersCollection = "customers"

// CustomerRepositoryFS implements customer.Repository using Firestore.
//
// Collection design:
// - collection: customers
// - docId: userId (Firebase uid)
// - fields: name, email, phone, address, city, role, totalSpent, orderCount,
//   registrationDate
//
// totalSpent/orderCount are bumped by the checkout transaction, not here.
type CustomerRepositoryFS struct {
	Client *firestore.Client
}

func NewCustomerRepositoryFS(client *firestore.Client) *CustomerRepositoryFS {
	return &CustomerRepositoryFS{Client: client}
}

func (r *CustomerRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(customersCollection)
}

func (r *CustomerRepositoryFS) GetByID(ctx context.Context, id string) (customerdom.Customer, error) {
	if r == nil || r.Client == nil {
		return customerdom.Customer{}, errors.New("customer_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(id)
	if uid == "" {
		return customerdom.Customer{}, customerdom.ErrNotFound
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return customerdom.Customer{}, customerdom.ErrNotFound
		}
		return customerdom.Customer{}, err
	}
	return customerFromSnapshotData(uid, snap.Data()), nil
}

func (r *CustomerRepositoryFS) Upsert(ctx context.Context, c customerdom.Customer) error {
	if r == nil || r.Client == nil {
		return errors.New("customer_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(c.ID)
	if uid == "" {
		return errors.New("customer_repository_fs: Upsert requires customer.ID as docId")
	}
	_, err := r.col().Doc(uid).Set(ctx, customerDocFromDomain(c))
	return err
}

func (r *CustomerRepositoryFS) List(ctx context.Context) ([]customerdom.Customer, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("customer_repository_fs: firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	var out []customerdom.Customer
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, customerFromSnapshotData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (r *CustomerRepositoryFS) CountCustomers(ctx context.Context) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("customer_repository_fs: firestore client is nil")
	}

	it := r.col().Where("role", "==", string(customerdom.RoleCustomer)).Documents(ctx)
	defer it.Stop()

	n := 0
	for {
		_, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type customerDoc struct {
	Name             string    `firestore:"name"`
	Email            string    `firestore:"email"`
	Phone            string    `firestore:"phone"`
	Address          string    `firestore:"address,omitempty"`
	City             string    `firestore:"city,omitempty"`
	Role             string    `firestore:"role"`
	TotalSpent       float64   `firestore:"totalSpent"`
	OrderCount       int       `firestore:"orderCount"`
	RegistrationDate time.Time `firestore:"registrationDate"`
}

func customerDocFromDomain(c customerdom.Customer) customerDoc {
	return customerDoc{
		Name:             c.Name,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		City:             c.City,
		Role:             string(c.Role),
		TotalSpent:       c.TotalSpent,
		OrderCount:       c.OrderCount,
		RegistrationDate: c.RegistrationDate,
	}
}

func customerFromSnapshotData(id string, raw map[string]any) customerdom.Customer {
	c := customerdom.Customer{ID: id}
	if raw == nil {
		return c
	}
	c.Name = strings.TrimSpace(asString(raw["name"]))
	c.Email = strings.ToLower(strings.TrimSpace(asString(raw["email"])))
	c.Phone = strings.TrimSpace(asString(raw["phone"]))
	c.Address = strings.TrimSpace(asString(raw["address"]))
	c.City = strings.TrimSpace(asString(raw["city"]))
	c.Role = customerdom.Role(strings.TrimSpace(asString(raw["role"])))
	if c.Role == "" {
		c.Role = customerdom.RoleCustomer
	}
	c.TotalSpent = asFloat(raw["totalSpent"])
	c.OrderCount = asInt(raw["orderCount"])
	if t, ok := asTime(raw["registrationDate"]); ok {
		c.RegistrationDate = t
	}
	return c
}
