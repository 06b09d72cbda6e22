package shoppingcart

import (
	"context"
	"fmt"
	"math"

	"github.com/angelmondragon/shoppingcart/pkg/types"
	"gorm.io/gorm"
)

const postgisDistanceSQL = `SELECT CEIL(ST_Distance(ST_GeogFromText(?), ST_GeogFromText(?)))`

// PostGISDistance asks the database for the geodesic distance on the WGS84 spheroid.
type PostGISDistance struct {
	db *gorm.DB
}

func NewPostGISDistance(db *gorm.DB) *PostGISDistance {
	return &PostGISDistance{db: db}
}

func (p *PostGISDistance) DistanceMeters(ctx context.Context, from, to types.GeographyPoint) (int, error) {
	var meters float64
	if err := p.db.WithContext(ctx).Raw(postgisDistanceSQL, from, to).Scan(&meters).Error; err != nil {
		return 0, fmt.Errorf("postgis distance: %w", err)
	}
	return int(meters), nil
}

const earthRadiusMeters = 6371008.8

// HaversineDistance computes great-circle distances in process. Used with
// sqlite, where PostGIS is unavailable.
type HaversineDistance struct{}

func (HaversineDistance) DistanceMeters(_ context.Context, from, to types.GeographyPoint) (int, error) {
	if !from.Valid() || !to.Valid() {
		return 0, fmt.Errorf("haversine distance: invalid point")
	}
	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLat := (to.Lat - from.Lat) * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return int(math.Ceil(earthRadiusMeters * c)), nil
}
