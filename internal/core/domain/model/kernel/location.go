package kernel

import (
	"errors"
	"fmt"
	"math"

	"orderdispatch/internal/pkg/errs"
	"orderdispatch/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	earthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation constructor")

// Location is a WGS84 point. Pickup points, customer positions and driver
// positions all use it. The zero value is invalid.
//
// Example:
//
//	loc, err := kernel.NewLocation(52.5200, 13.4050)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(loc) // Location(52.520000,13.405000)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewLocation validates latitude in [-90, 90] and longitude in [-180, 180].
//
// Parameters:
//   - lat: latitude in degrees
//   - lng: longitude in degrees
//
// Returns:
//   - Location: a valid location instance
//   - error: errs.ValueIsOutOfRangeError for each coordinate out of bounds, joined
func NewLocation(lat, lng float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLat(lat), loc.setLng(lng)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate returns ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Lat() float64 {
	return l.lat
}

func (l Location) Lng() float64 {
	return l.lng
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.lat, l.lng)
}

// IsEqual compares coordinates. Both locations must be constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lng == other.lng, nil
}

// DistanceKm returns the great-circle (haversine) distance between two locations.
//
// Example:
//
//	berlin, _ := NewLocation(52.5200, 13.4050)
//	potsdam, _ := NewLocation(52.3906, 13.0645)
//	km, _ := berlin.DistanceKm(potsdam) // ~27
func (l Location) DistanceKm(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1, lat2 := radians(l.lat), radians(other.lat)
	dLat := lat2 - lat1
	dLng := radians(other.lng - l.lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// setLat uses a pointer receiver to mutate during construction only.
func (l *Location) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	l.lng = lng
	return nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
