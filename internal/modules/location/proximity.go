package location

import (
	"math"
	"sort"

	"ride-hail-backend/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// WGS84 coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// nearestWithin filters entries to those at most radiusKm from (lat,lng) and
// sorts them nearest first. Distances are computed once per entry so the
// filter and the ordering agree within a single call.
func nearestWithin(entries []models.DriverLocation, lat, lng, radiusKm float64) []models.DriverLocation {
	type scored struct {
		loc  models.DriverLocation
		dist float64
	}

	var within []scored
	for _, e := range entries {
		if d := Haversine(lat, lng, e.Lat, e.Lng); d <= radiusKm {
			within = append(within, scored{loc: e, dist: d})
		}
	}

	sort.SliceStable(within, func(i, j int) bool {
		return within[i].dist < within[j].dist
	})

	out := make([]models.DriverLocation, len(within))
	for i, s := range within {
		out[i] = s.loc
	}
	return out
}
