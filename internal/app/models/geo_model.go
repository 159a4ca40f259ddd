package models

// GeoPosition is a WGS84 coordinate pair.
type GeoPosition struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Bounds is a geographic bounding box described by its top-left and
// bottom-right corners. A box whose left longitude is greater than its
// right longitude wraps around the antimeridian.
type Bounds struct {
	LeftTop     GeoPosition `json:"left_top"`
	RightBottom GeoPosition `json:"right_bottom"`
}

func (b Bounds) Contains(p GeoPosition) bool {
	if p.Latitude > b.LeftTop.Latitude || p.Latitude < b.RightBottom.Latitude {
		return false
	}
	if b.LeftTop.Longitude <= b.RightBottom.Longitude {
		return p.Longitude >= b.LeftTop.Longitude && p.Longitude <= b.RightBottom.Longitude
	}
	// Wrapped box: the valid range is split across 180°
	return p.Longitude >= b.LeftTop.Longitude || p.Longitude <= b.RightBottom.Longitude
}
