package geo

import (
	"math"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

// earthRadiusMeters - экваториальный радиус WGS84
const earthRadiusMeters = 6378137.0

// Distance возвращает расстояние по большому кругу между точками в метрах (формула гаверсинусов)
func Distance(a, b models.Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
