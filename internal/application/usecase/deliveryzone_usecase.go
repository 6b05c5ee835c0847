// internal/application/usecase/deliveryzone_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	zonedom "simo/internal/domain/deliveryzone"

	"github.com/google/uuid"
)

var ErrZoneInvalidArgument = errors.New("deliveryzone_usecase: invalid argument")

// DeliveryZoneUsecase serves zone lookups for checkout and admin CRUD.
type DeliveryZoneUsecase struct {
	zones zonedom.Repository
}

func NewDeliveryZoneUsecase(zones zonedom.Repository) *DeliveryZoneUsecase {
	return &DeliveryZoneUsecase{zones: zones}
}

func (uc *DeliveryZoneUsecase) GetByID(ctx context.Context, id string) (zonedom.Zone, error) {
	return uc.zones.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *DeliveryZoneUsecase) ListActive(ctx context.Context) ([]zonedom.Zone, error) {
	return uc.zones.ListActive(ctx)
}

type CreateZoneInput struct {
	Name   string
	Cities []string
	Price  float64
}

func (uc *DeliveryZoneUsecase) Create(ctx context.Context, in CreateZoneInput) (zonedom.Zone, error) {
	z, err := zonedom.New(uuid.NewString(), in.Name, in.Cities, in.Price)
	if err != nil {
		return zonedom.Zone{}, err
	}
	return uc.zones.Create(ctx, z)
}

type UpdateZoneInput struct {
	ID       string
	Name     *string
	Cities   *[]string
	Price    *float64
	IsActive *bool
}

func (uc *DeliveryZoneUsecase) Update(ctx context.Context, in UpdateZoneInput) (zonedom.Zone, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return zonedom.Zone{}, ErrZoneInvalidArgument
	}

	z, err := uc.zones.GetByID(ctx, id)
	if err != nil {
		return zonedom.Zone{}, err
	}

	if in.Name != nil {
		z.Name = strings.TrimSpace(*in.Name)
	}
	if in.Cities != nil {
		z.Cities = *in.Cities
	}
	if in.Price != nil {
		z.Price = *in.Price
	}
	if in.IsActive != nil {
		z.IsActive = *in.IsActive
	}

	return uc.zones.Update(ctx, z)
}

// Deactivate soft-deletes; existing orders keep the zone name snapshot.
func (uc *DeliveryZoneUsecase) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrZoneInvalidArgument
	}
	return uc.zones.Deactivate(ctx, id)
}
