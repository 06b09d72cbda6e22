package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GeographyPoint represents a WGS84 position. Peer services may report a
// position as unknown; callers model that as a nil *GeographyPoint, never as NaN.
type GeographyPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewGeographyPoint validates lat/lng and returns nil for unusable coordinates.
func NewGeographyPoint(lat, lng float64) *GeographyPoint {
	p := GeographyPoint{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil
	}
	return &p
}

// Valid reports whether both coordinates are finite and in range.
func (g GeographyPoint) Valid() bool {
	if math.IsNaN(g.Lat) || math.IsNaN(g.Lng) || math.IsInf(g.Lat, 0) || math.IsInf(g.Lng, 0) {
		return false
	}
	return g.Lat >= -90 && g.Lat <= 90 && g.Lng >= -180 && g.Lng <= 180
}

// Value produces an EWKT literal so Postgres can cast the geography.
func (g GeographyPoint) Value() (driver.Value, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("geography: invalid point (%v, %v)", g.Lat, g.Lng)
	}
	return "SRID=4326;POINT(" + formatCoordinate(g.Lng) + " " + formatCoordinate(g.Lat) + ")", nil
}

// formatCoordinate keeps every significant digit; tier boundaries sit on whole meters.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PointFromJSON builds a point from raw JSON coordinates. Peer services encode
// an unknown coordinate as null, as the string "NaN" or by omitting it; all of
// those yield nil.
func PointFromJSON(lat, lng json.RawMessage) *GeographyPoint {
	la, ok := coordinateFromJSON(lat)
	if !ok {
		return nil
	}
	ln, ok := coordinateFromJSON(lng)
	if !ok {
		return nil
	}
	return NewGeographyPoint(la, ln)
}

func coordinateFromJSON(raw json.RawMessage) (float64, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, false
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		trimmed = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
