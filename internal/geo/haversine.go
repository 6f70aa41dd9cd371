package geo

import (
	"math"

	"github.com/UnknownOlympus/geodist/internal/models"
)

const decimals = 2

// CalculateDistance returns the great-circle distance between two points given in
// decimal degrees, using the Haversine formula on a spherical Earth.
// The result is expressed in unit (unknown units fall back to kilometers) and
// rounded to two decimal places.
//
// Formula:
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
func CalculateDistance(lat1, lon1, lat2, lon2 float64, unit models.DistanceUnit) float64 {
	lat1Rad := degreesToRadians(lat1)
	lon1Rad := degreesToRadians(lon1)
	lat2Rad := degreesToRadians(lat2)
	lon2Rad := degreesToRadians(lon2)

	deltaLat := lat2Rad - lat1Rad
	deltaLon := lon2Rad - lon1Rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// Rounding error can push a just outside [0, 1] for (near-)antipodal points.
	a = math.Max(0, math.Min(1, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return RoundTo(unit.Radius()*c, decimals)
}

// Distance is CalculateDistance over a validated query.
func Distance(query models.DistanceQuery) models.DistanceResult {
	return models.DistanceResult{
		Distance: CalculateDistance(
			query.From.Latitude, query.From.Longitude,
			query.To.Latitude, query.To.Longitude,
			query.Unit,
		),
		Unit: query.Unit,
	}
}

// RoundTo rounds value half away from zero to the given number of decimal places.
func RoundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
