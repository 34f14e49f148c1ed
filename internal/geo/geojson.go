// Package geo decodes country boundary GeoJSON and derives the
// representative point used when a country is selected on the map.
package geo

import (
	"encoding/json"
	"errors"
)

const (
	// Fallbacks when a feature carries no usable properties.
	UnknownCountryName = "Unknown Country"
	UnknownCountryCode = "XX"
)

type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Country is the selection payload derived from a clicked feature:
// display name, ISO code and the bounding-box center of its geometry.
type Country struct {
	Name string  `json:"name"`
	Code string  `json:"code"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

var errNoFeatures = errors.New("geojson payload has no feature list")

// ParseCollection decodes a FeatureCollection. A payload without a
// feature list is rejected as malformed.
func ParseCollection(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.Features == nil {
		return nil, errNoFeatures
	}
	return &fc, nil
}

// Countries maps every feature of the collection to a Country. Features
// without geometry are skipped.
func (fc *FeatureCollection) Countries() []Country {
	out := make([]Country, 0, len(fc.Features))
	for _, f := range fc.Features {
		if c, ok := f.Country(); ok {
			out = append(out, c)
		}
	}
	return out
}

// Country turns one feature into a selection payload. The coordinate is
// the center of the geometry's bounding box, matching how the map view
// resolves a click on a polygon.
func (f *Feature) Country() (Country, bool) {
	b, ok := f.bounds()
	if !ok {
		return Country{}, false
	}
	c := Country{Name: UnknownCountryName, Code: UnknownCountryCode}
	if v, ok := f.Properties["name"].(string); ok && v != "" {
		c.Name = v
	}
	if v, ok := f.Properties["iso_a2"].(string); ok && v != "" {
		c.Code = v
	}
	c.Lat, c.Lng = b.center()
	return c, true
}

type bbox struct {
	minLat, maxLat float64
	minLng, maxLng float64
	set            bool
}

func (b *bbox) extend(lng, lat float64) {
	if !b.set {
		b.minLat, b.maxLat = lat, lat
		b.minLng, b.maxLng = lng, lng
		b.set = true
		return
	}
	if lat < b.minLat {
		b.minLat = lat
	}
	if lat > b.maxLat {
		b.maxLat = lat
	}
	if lng < b.minLng {
		b.minLng = lng
	}
	if lng > b.maxLng {
		b.maxLng = lng
	}
}

func (b *bbox) center() (lat, lng float64) {
	return (b.minLat + b.maxLat) / 2, (b.minLng + b.maxLng) / 2
}

func (f *Feature) bounds() (*bbox, bool) {
	if f.Geometry == nil {
		return nil, false
	}
	b := &bbox{}
	switch f.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return nil, false
		}
		extendRings(b, rings)
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return nil, false
		}
		for _, rings := range polys {
			extendRings(b, rings)
		}
	default:
		return nil, false
	}
	return b, b.set
}

func extendRings(b *bbox, rings [][][]float64) {
	for _, ring := range rings {
		for _, pt := range ring {
			if len(pt) < 2 {
				continue
			}
			// GeoJSON positions are [lng, lat]
			b.extend(pt[0], pt[1])
		}
	}
}
