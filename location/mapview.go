package location

// MapView is the server-side model of the page map: where it is centred and
// where its single marker sits.
type MapView struct {
	Center Coordinate  `json:"center"`
	Zoom   int         `json:"zoom"`
	Marker *Coordinate `json:"marker,omitempty"`
	// Draggable is set when the marker came from a map click and can be
	// moved by dragging.
	Draggable bool `json:"draggable"`
}

// NewMapView returns a view centred on c at the location zoom with a marker.
func NewMapView(c Coordinate) MapView {
	v := MapView{}
	v.SetView(c, ZoomLocation)
	return v
}

// SetView recentres the map and moves the marker there.
func (v *MapView) SetView(c Coordinate, zoom int) {
	v.Center = c
	v.Zoom = zoom
	v.PlaceMarker(c)
}

// PlaceMarker replaces the marker. There is never more than one.
func (v *MapView) PlaceMarker(c Coordinate) {
	m := c
	v.Marker = &m
	v.Draggable = false
}

// PlacePin replaces the marker with a draggable pin without recentering.
func (v *MapView) PlacePin(c Coordinate) {
	v.PlaceMarker(c)
	v.Draggable = true
}
