package utils

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"taipei", Coordinate{Lat: 25.033, Lng: 121.565}, false},
		{"origin", Coordinate{}, false},
		{"latitude too high", Coordinate{Lat: 91, Lng: 121}, true},
		{"longitude too low", Coordinate{Lat: 23, Lng: -181}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPointFeature(t *testing.T) {
	feature, err := PointFeature(Coordinate{Lat: 24.15, Lng: 120.67})
	require.NoError(t, err)

	point, ok := feature.Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, 120.67, point.Lon())
	assert.Equal(t, 24.15, point.Lat())
	assert.Equal(t, true, feature.Properties["in_taiwan"])

	_, err = PointFeature(Coordinate{Lat: 100, Lng: 0})
	assert.Error(t, err)
}

func TestInTaiwan(t *testing.T) {
	assert.True(t, InTaiwan(Coordinate{Lat: 24.43, Lng: 118.32}), "kinmen")
	assert.False(t, InTaiwan(Coordinate{Lat: 35.68, Lng: 139.69}), "tokyo")
}
