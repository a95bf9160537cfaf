package geo

import "math"

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 // Degrees, must be in [-90, 90]
	Longitude float64 // Degrees, must be in [-180, 180]
}

// Validate checks that the coordinate is within WGS84 bounds.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrInvalidCoordinate{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrInvalidCoordinate{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	return nil
}

// ErrInvalidCoordinate is returned when a coordinate is out of bounds.
type ErrInvalidCoordinate struct {
	Field  string
	Reason string
}

func (e ErrInvalidCoordinate) Error() string {
	return e.Field + ": " + e.Reason
}

// HaversineKm calculates the great-circle distance between two points in kilometers.
// The result is unrounded; callers comparing against a radius must use it as-is
// and only round for display.
func HaversineKm(a, b Coordinate) float64 {
	const R = 6371.0 // Earth radius km
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RoundKm rounds a distance to one decimal place for display and DTOs.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}
