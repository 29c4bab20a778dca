package openlr

import "math"

// Numeric conversions between bit-packed integers and physical units
// (§4.2). Each function is a pure, closed-form transform; none of them
// carry any state or I/O, so there is no library surface worth wiring
// here beyond stdlib math.

const (
	bit24Factor            = 46603.377778
	decaMicroDegFactor      = 100000.0
	bearingSectorDegrees    = 11.25
	lengthIntervalMeters    = 58.6
	relativeOffsetUnit      = 0.390625
)

func signum(v int32) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// absoluteCoordDegrees converts a 24-bit signed integer coordinate
// component into decimal degrees.
func absoluteCoordDegrees(v int32) float64 {
	return (float64(v) - signum(v)*0.5) / bit24Factor
}

// absoluteCoordinate converts a raw (lon, lat) pair of 24-bit signed
// integers into a Coordinate.
func absoluteCoordinate(lon, lat int32) Coordinate {
	return Coordinate{Lon: absoluteCoordDegrees(lon), Lat: absoluteCoordDegrees(lat)}
}

// relativeCoordinate applies a 16-bit signed delta, expressed in
// deca-micro-degrees, against a reference coordinate.
func relativeCoordinate(prev Coordinate, dLon, dLat int32) Coordinate {
	return Coordinate{
		Lon: prev.Lon + float64(dLon)/decaMicroDegFactor,
		Lat: prev.Lat + float64(dLat)/decaMicroDegFactor,
	}
}

// bearingEstimate returns the midpoint, in degrees, of the bearing
// sector's 11.25° interval.
func bearingEstimate(sector int) float64 {
	return (float64(sector) + 0.5) * bearingSectorDegrees
}

// distanceEstimate returns the midpoint, in meters, of the 58.6m-wide
// interval an 8-bit dnp/offset field indexes. Rounds once, at the end
// (§9 Open Question (b)).
func distanceEstimate(interval int) float64 {
	return math.Round((float64(interval) + 0.5) * lengthIntervalMeters)
}

// relativeOffsetPercent returns the midpoint, in percent, of the
// 0.390625-wide interval a v3 8-bit offset field indexes. Unlike
// distanceEstimate this is not rounded: the v3 format carries offsets
// as a fraction of path length, not a bucketed meter count.
func relativeOffsetPercent(interval int) float64 {
	return (float64(interval) + 0.5) * relativeOffsetUnit
}
