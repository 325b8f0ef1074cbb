package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// Location is a GeoJSON geometry. Drones always report a point, missions
// carry either a point or a surveyed area.
type Location struct {
	geom.Geometry
}

// PointLocation builds a point location from a longitude/latitude pair
func PointLocation(lng, lat float64) Location {
	return Location{Geometry: geom.XY{X: lng, Y: lat}.AsPoint().AsGeometry()}
}

// RectangleArea builds the area drawn on the planning map from its
// south-west and north-east corners.
func RectangleArea(west, south, east, north float64) (Location, error) {
	if west >= east || south >= north {
		return Location{}, fmt.Errorf("invalid rectangle bounds: (%v,%v) (%v,%v)", west, south, east, north)
	}
	wkt := fmt.Sprintf("POLYGON((%[1]v %[2]v,%[3]v %[2]v,%[3]v %[4]v,%[1]v %[4]v,%[1]v %[2]v))", west, south, east, north)
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return Location{}, err
	}
	return Location{Geometry: g}, nil
}

// IsPoint reports whether the location is a single point
func (l Location) IsPoint() bool {
	return l.Geometry.Type() == geom.TypePoint && !l.Geometry.IsEmpty()
}

// Center returns the centroid of the location as a point. ok is false for
// an empty location.
func (l Location) Center() (Location, bool) {
	if l.Geometry.IsEmpty() {
		return Location{}, false
	}
	xy, ok := l.Geometry.Centroid().XY()
	if !ok {
		return Location{}, false
	}
	return PointLocation(xy.X, xy.Y), true
}

// MarshalJSON encodes the location as GeoJSON, or null when empty
func (l Location) MarshalJSON() ([]byte, error) {
	if l.Geometry.IsEmpty() {
		return []byte("null"), nil
	}
	return l.Geometry.MarshalJSON()
}

// UnmarshalJSON accepts GeoJSON and the bare {"coordinates": [lng, lat]}
// shape stored by older planners.
func (l *Location) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = Location{}
		return nil
	}
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	if head.Type == "" {
		var pair []float64
		if len(head.Coordinates) > 0 {
			if err := json.Unmarshal(head.Coordinates, &pair); err != nil {
				return fmt.Errorf("location without type: %w", err)
			}
		}
		switch len(pair) {
		case 0:
			*l = Location{}
		case 2:
			*l = PointLocation(pair[0], pair[1])
		default:
			return fmt.Errorf("location without type must have 2 coordinates, got %d", len(pair))
		}
		return nil
	}
	g, err := geom.UnmarshalGeoJSON(data)
	if err != nil {
		return err
	}
	l.Geometry = g
	return nil
}
