// internal/adapters/out/firestore/deliveryzone_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	zonedom "simo/internal/domain/deliveryzone"
)

const zonesCollection = "deliveryZones"

// DeliveryZoneRepositoryFS implements deliveryzone.Repository using Firestore.
//
// Collection design:
// - collection: deliveryZones
// - docId: zoneId
// - fields: name, cities(array), price, isActive
type DeliveryZoneRepositoryFS struct {
	Client *firestore.Client
}

func NewDeliveryZoneRepositoryFS(client *firestore.Client) *DeliveryZoneRepositoryFS {
	return &DeliveryZoneRepositoryFS{Client: client}
}

func (r *DeliveryZoneRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(zonesCollection)
}

func (r *DeliveryZoneRepositoryFS) GetByID(ctx context.Context, id string) (zonedom.Zone, error) {
	if r == nil || r.Client == nil {
		return zonedom.Zone{}, errors.New("deliveryzone_repository_fs: firestore client is nil")
	}
	zid := strings.TrimSpace(id)
	if zid == "" {
		return zonedom.Zone{}, zonedom.ErrNotFound
	}

	snap, err := r.col().Doc(zid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return zonedom.Zone{}, zonedom.ErrNotFound
		}
		return zonedom.Zone{}, err
	}
	return zoneFromSnapshotData(zid, snap.Data()), nil
}

func (r *DeliveryZoneRepositoryFS) ListActive(ctx context.Context) ([]zonedom.Zone, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("deliveryzone_repository_fs: firestore client is nil")
	}

	it := r.col().Where("isActive", "==", true).Documents(ctx)
	defer it.Stop()

	var out []zonedom.Zone
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, zoneFromSnapshotData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (r *DeliveryZoneRepositoryFS) Create(ctx context.Context, z zonedom.Zone) (zonedom.Zone, error) {
	if r == nil || r.Client == nil {
		return zonedom.Zone{}, errors.New("deliveryzone_repository_fs: firestore client is nil")
	}
	_, err := r.col().Doc(z.ID).Create(ctx, zoneDocFromDomain(z))
	if err != nil {
		return zonedom.Zone{}, err
	}
	return z, nil
}

func (r *DeliveryZoneRepositoryFS) Update(ctx context.Context, z zonedom.Zone) (zonedom.Zone, error) {
	if r == nil || r.Client == nil {
		return zonedom.Zone{}, errors.New("deliveryzone_repository_fs: firestore client is nil")
	}
	_, err := r.col().Doc(z.ID).Set(ctx, zoneDocFromDomain(z))
	if err != nil {
		return zonedom.Zone{}, err
	}
	return z, nil
}

func (r *DeliveryZoneRepositoryFS) Deactivate(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("deliveryzone_repository_fs: firestore client is nil")
	}
	zid := strings.TrimSpace(id)
	if zid == "" {
		return zonedom.ErrNotFound
	}
	_, err := r.col().Doc(zid).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
	})
	if status.Code(err) == codes.NotFound {
		return zonedom.ErrNotFound
	}
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type zoneDoc struct {
	Name     string   `firestore:"name"`
	Cities   []string `firestore:"cities"`
	Price    float64  `firestore:"price"`
	IsActive bool     `firestore:"isActive"`
}

func zoneDocFromDomain(z zonedom.Zone) zoneDoc {
	return zoneDoc{
		Name:     z.Name,
		Cities:   z.Cities,
		Price:    z.Price,
		IsActive: z.IsActive,
	}
}

func zoneFromSnapshotData(id string, raw map[string]any) zonedom.Zone {
	z := zonedom.Zone{ID: id}
	if raw == nil {
		return z
	}
	z.Name = strings.TrimSpace(asString(raw["name"]))
	z.Cities = asStringSlice(raw["cities"])
	z.Price = asFloat(raw["price"])
	z.IsActive = asBool(raw["isActive"])
	return z
}
