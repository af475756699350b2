package incidents

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// Distance is the great-circle distance in kilometres between two points (haversine).
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// NearbyIncident pairs an incident with its distance from the query point.
type NearbyIncident struct {
	Incident
	DistanceKm float64 `json:"distance_km"`
}

// Nearby returns the incidents within radiusKm of (lat, lng), closest first.
func Nearby(list []Incident, lat, lng, radiusKm float64) []NearbyIncident {
	out := make([]NearbyIncident, 0)
	for _, i := range list {
		d := Distance(lat, lng, i.Latitude, i.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyIncident{Incident: i, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].DistanceKm < out[b].DistanceKm })
	return out
}

// HeatPointsFrom snaps incidents onto a grid with the given number of decimal places
// and weights each cell by how many incidents fell into it. Heaviest cells come first.
func HeatPointsFrom(list []Incident, precision int) []HeatPoint {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	type cell struct{ lat, lng float64 }
	weights := map[cell]float64{}
	for _, i := range list {
		c := cell{
			lat: math.Round(i.Latitude*scale) / scale,
			lng: math.Round(i.Longitude*scale) / scale,
		}
		weights[c]++
	}
	out := make([]HeatPoint, 0, len(weights))
	for c, w := range weights {
		out = append(out, HeatPoint{Latitude: c.lat, Longitude: c.lng, Weight: w})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Weight != out[b].Weight {
			return out[a].Weight > out[b].Weight
		}
		if out[a].Latitude != out[b].Latitude {
			return out[a].Latitude < out[b].Latitude
		}
		return out[a].Longitude < out[b].Longitude
	})
	return out
}
