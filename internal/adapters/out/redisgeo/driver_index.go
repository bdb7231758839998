// Package redisgeo keeps driver positions in a Redis GEO set and picks the
// nearest eligible driver for an order.
package redisgeo

import (
	"context"
	"errors"

	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey      = "dispatch:drivers"
	DefaultRadiusKm = 5.0
)

// DriverIndex implements ports.DriverLocationIndex and ports.CandidateSelector.
type DriverIndex struct {
	redis    redis.UniversalClient
	key      string
	radiusKm float64
}

type Option func(*DriverIndex)

// WithKey sets the GEO set key.
func WithKey(key string) Option {
	return func(i *DriverIndex) {
		if key != "" {
			i.key = key
		}
	}
}

// WithRadiusKm bounds how far from the pickup point candidates are searched.
func WithRadiusKm(km float64) Option {
	return func(i *DriverIndex) {
		if km > 0 {
			i.radiusKm = km
		}
	}
}

func NewDriverIndex(client redis.UniversalClient, opts ...Option) *DriverIndex {
	i := &DriverIndex{
		redis:    client,
		key:      DefaultKey,
		radiusKm: DefaultRadiusKm,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *DriverIndex) UpdateDriverLocation(ctx context.Context, driverID kernel.UUID, loc kernel.Location) error {
	if err := errors.Join(driverID.Validate(), loc.Validate()); err != nil {
		return err
	}

	return i.redis.GeoAdd(ctx, i.key, &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: loc.Lng(),
		Latitude:  loc.Lat(),
	}).Err()
}

func (i *DriverIndex) RemoveDriver(ctx context.Context, driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	return i.redis.ZRem(ctx, i.key, driverID.String()).Err()
}

// SelectCandidateDriver returns the nearest driver within the radius of the
// order's pickup point that is not in excluded. Orders without a pickup
// point may go to any indexed driver.
func (i *DriverIndex) SelectCandidateDriver(
	ctx context.Context,
	o *order.Order,
	excluded []kernel.UUID,
) (kernel.UUID, bool, error) {
	names, err := i.candidates(ctx, o)
	if err != nil {
		return kernel.UUID{}, false, err
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id.String()] = struct{}{}
	}

	for _, name := range names {
		if _, isExcluded := skip[name]; isExcluded {
			continue
		}
		id, parseErr := kernel.UUIDFromString(name)
		if parseErr != nil {
			// Members not written by this index are ignored.
			continue
		}
		return id, true, nil
	}

	return kernel.UUID{}, false, nil
}

func (i *DriverIndex) candidates(ctx context.Context, o *order.Order) ([]string, error) {
	pickup := o.PickupLocation()
	if pickup == nil {
		return i.redis.ZRange(ctx, i.key, 0, -1).Result()
	}

	return i.redis.GeoSearch(ctx, i.key, &redis.GeoSearchQuery{
		Longitude:  pickup.Lng(),
		Latitude:   pickup.Lat(),
		Radius:     i.radiusKm,
		RadiusUnit: "km",
		Sort:       "ASC",
	}).Result()
}
