package utils

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coordinate is a WGS84 position as stored on a factory.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TaiwanBound roughly covers Taiwan and its outlying islands, Kinmen and Matsu included.
var TaiwanBound = orb.Bound{
	Min: orb.Point{118.0, 21.8},
	Max: orb.Point{122.1, 26.4},
}

// ValidateCoordinate checks that a coordinate is a valid WGS84 position.
func ValidateCoordinate(coord Coordinate) error {
	if coord.Lat < -90 || coord.Lat > 90 {
		return fmt.Errorf("latitude %.6f is out of valid range [-90, 90]", coord.Lat)
	}
	if coord.Lng < -180 || coord.Lng > 180 {
		return fmt.Errorf("longitude %.6f is out of valid range [-180, 180]", coord.Lng)
	}
	return nil
}

// Point converts to orb's lng/lat order.
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// InTaiwan reports whether the coordinate falls inside TaiwanBound.
func InTaiwan(coord Coordinate) bool {
	return TaiwanBound.Contains(coord.Point())
}

// PointFeature builds a GeoJSON point feature for a coordinate.
func PointFeature(coord Coordinate) (*geojson.Feature, error) {
	if err := ValidateCoordinate(coord); err != nil {
		return nil, err
	}
	feature := geojson.NewFeature(coord.Point())
	feature.Properties["in_taiwan"] = InTaiwan(coord)
	return feature, nil
}
