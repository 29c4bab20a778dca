package sqlitedb

import (
	"math"

	"github.com/beetlebugorg/openlr/pkg/openlr"
)

const earthRadiusMeters = 6371000.0
const degreesPerMeter = 1.0 / 111000.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }

func haversineMeters(a, b openlr.Coordinate) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func initialBearingDegrees(a, b openlr.Coordinate) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	theta := math.Atan2(y, x)
	return math.Mod(theta*180/math.Pi+360, 360)
}

func bearingSector(bearingDeg float64) int {
	sector := int(math.Floor(bearingDeg / 11.25))
	if sector < 0 {
		sector += 32
	}
	return sector % 32
}

func lineLengthMeters(geometry []openlr.Coordinate) float64 {
	var total float64
	for i := 1; i < len(geometry); i++ {
		total += haversineMeters(geometry[i-1], geometry[i])
	}
	return total
}

func projectPoint(geometry []openlr.Coordinate, p openlr.Coordinate) (distance, along float64) {
	best := math.Inf(1)
	var bestAlong float64
	var travelled float64

	for i := 1; i < len(geometry); i++ {
		a, b := geometry[i-1], geometry[i]
		segLen := haversineMeters(a, b)

		d, t := pointToSegment(a, b, p)
		if d < best {
			best = d
			bestAlong = travelled + t*segLen
		}
		travelled += segLen
	}
	return best, bestAlong
}

func pointToSegment(a, b, p openlr.Coordinate) (distance float64, t float64) {
	latRad := toRadians((a.Lat + b.Lat) / 2)
	scaleLon := math.Cos(latRad)

	ax, ay := a.Lon*scaleLon, a.Lat
	bx, by := b.Lon*scaleLon, b.Lat
	px, py := p.Lon*scaleLon, p.Lat

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return haversineMeters(a, p), 0
	}

	t = ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := openlr.Coordinate{Lon: a.Lon + t*(b.Lon-a.Lon), Lat: a.Lat + t*(b.Lat-a.Lat)}
	return haversineMeters(closest, p), t
}

func startBearingSector(rec *lineRow) int {
	return bearingSector(initialBearingDegrees(rec.geometry[0], rec.geometry[1]))
}

func endBearingSector(rec *lineRow) int {
	n := len(rec.geometry)
	return bearingSector(initialBearingDegrees(rec.geometry[n-1], rec.geometry[n-2]))
}
