package kernel

import (
	"encoding/json"
	"errors"
	"math"

	"courier/internal/pkg/errs"
	"courier/internal/pkg/guard"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0

	// MetersPerDegree is the length of one degree of latitude, used to express
	// metre thresholds in the planar degree metric.
	MetersPerDegree = 111_320.0

	earthRadiusMeters = 6_371_000.0
)

// ErrCoordinatesAreNotConstructed is returned when validating zero-value Coordinates.
var ErrCoordinatesAreNotConstructed = errors.New("coordinates must be created via NewCoordinates")

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewCoordinates validates lat in [-90, 90] and lng in [-180, 180].
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	if err := errors.Join(
		validateRange("lat", lat, minLatitude, maxLatitude),
		validateRange("lng", lng, minLongitude, maxLongitude),
	); err != nil {
		return Coordinates{}, err
	}

	return Coordinates{
		lat:   lat,
		lng:   lng,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// MustNewCoordinates panics on invalid input. Meant for tests and constants.
func MustNewCoordinates(lat, lng float64) Coordinates {
	c, err := NewCoordinates(lat, lng)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinates) Lat() float64 {
	return c.lat
}

func (c Coordinates) Lng() float64 {
	return c.lng
}

func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

func (c Coordinates) IsEqual(other Coordinates) bool {
	return c.lat == other.lat && c.lng == other.lng
}

// PlanarDistance is the Euclidean norm of the latitude and longitude differences, in degrees.
// It ignores meridian convergence, so east-west distances are overestimated away from the
// equator; at 14°S one degree of longitude is about 3% shorter than one degree of latitude.
// Good enough for in-city proximity checks, which is the only place it is used.
func (c Coordinates) PlanarDistance(other Coordinates) float64 {
	return math.Hypot(c.lat-other.lat, c.lng-other.lng)
}

// HaversineMeters returns the great-circle distance to other in metres.
func (c Coordinates) HaversineMeters(other Coordinates) float64 {
	lat1 := degreesToRadians(c.lat)
	lat2 := degreesToRadians(other.lat)
	dLat := lat2 - lat1
	dLng := degreesToRadians(other.lng - c.lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

// MetersToDegrees converts a distance in metres to the unit of PlanarDistance.
func MetersToDegrees(meters float64) float64 {
	return meters / MetersPerDegree
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

func validateRange(name string, value, lo, hi float64) error {
	if math.IsNaN(value) || value < lo || value > hi {
		return errs.NewValueIsOutOfRangeError(name, value, lo, hi)
	}
	return nil
}

type coordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinatesJSON{Lat: c.lat, Lng: c.lng})
}

// UnmarshalJSON accepts {"lat": .., "lng": ..} and applies the NewCoordinates range checks.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var raw coordinatesJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewCoordinates(raw.Lat, raw.Lng)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
