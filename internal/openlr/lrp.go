package openlr

// Coordinate is a (longitude, latitude) pair in decimal degrees.
type Coordinate struct {
	Lon float64
	Lat float64
}

// LRP is a Location Reference Point: a waypoint carrying a coordinate,
// the road attributes observed there, and (for all but the terminal LRP)
// the distance and worst permitted road class to the next LRP (§3).
type LRP struct {
	Coords  Coordinate
	Bearing int // sector, 0..31
	Side    int // side-or-orientation, 2-bit enum (§3)
	FRC     int // 0..7, 0 = highest class
	FOW     int // 0..7

	// HasNext is false for the terminal LRP of a location; LFRCNP and
	// DNP are only meaningful when HasNext is true.
	HasNext bool
	LFRCNP  int
	DNP     float64 // meters
}

// bearingDegrees returns the midpoint bearing, in degrees, for rating.
func (p LRP) bearingDegrees() float64 { return bearingEstimate(p.Bearing) }
