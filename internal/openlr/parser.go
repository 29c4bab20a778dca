package openlr

// Parse reads a raw (non-base64) OpenLR physical-format buffer and
// returns its typed Location (§4.4). It is the sole entry point of the
// location parser; the decoder and the public pkg/openlr wrapper never
// touch bit offsets directly.
func Parse(data []byte) (Location, error) {
	minLen := minBytesLineLocation
	if geoCoordSize < minLen {
		minLen = geoCoordSize
	}
	if minBytesClosedLineLocation < minLen {
		minLen = minBytesClosedLineLocation
	}
	if len(data) < minLen {
		return Location{}, &ErrInvalidDataSize{Got: len(data), Want: "at least a header and one LRP"}
	}

	r := newBitReader(data)
	h := readHeader(r)
	r.version = h.ver

	kind, err := classify(h, len(data))
	if err != nil {
		return Location{}, err
	}

	switch kind {
	case KindLineLocation:
		return parseLine(r, kind)
	case KindPointAlongLine:
		return parsePointAlongLine(r, kind)
	case KindGeoCoordinates:
		return parseGeoCoordinates(r, kind)
	case KindPoiWithAccessPoint:
		return parsePoiWithAccessPoint(r, kind)
	case KindCircle:
		return parseCircle(r, kind)
	case KindRectangle:
		return parseRectangle(r, kind)
	case KindGrid:
		return parseGrid(r, kind)
	case KindClosedLine:
		return parseClosedLine(r, kind)
	case KindPolygon:
		return parsePolygon(r, kind)
	default:
		return Location{}, &ErrInvalidHeader{}
	}
}

// --- LRP field groups (§4.4, "attr1".."attr6" in the pack's naming) ---

func parseAttr1(r *bitReader) (side, frc, fow int) {
	side = int(r.uint(bitsSideOrOrientation))
	frc = int(r.uint(bitsFRC))
	fow = int(r.uint(bitsFOW))
	return
}

func parseAttr2(r *bitReader) (lfrcnp, bear int) {
	lfrcnp = int(r.uint(bitsLFRCNP))
	bear = int(r.uint(bitsBearing))
	return
}

func parseAttr3(r *bitReader) (dnpInterval int) {
	return int(r.uint(bitsDNP))
}

func parseAttr4(r *bitReader) (pofff, nofff, bear int) {
	r.skip(bitsRFU)
	pofff = int(r.uint(bitsOffsetFlag))
	nofff = int(r.uint(bitsOffsetFlag))
	bear = int(r.uint(bitsBearing))
	return
}

func parseAttr5(r *bitReader) (frc, fow int) {
	r.skip(2)
	frc = int(r.uint(bitsFRC))
	fow = int(r.uint(bitsFOW))
	return
}

func parseAttr6(r *bitReader) (bear int) {
	r.skip(3)
	return int(r.uint(bitsBearing))
}

func parseAbsoluteCoordinate(r *bitReader) Coordinate {
	lon := r.int(bitsAbsCoord)
	lat := r.int(bitsAbsCoord)
	return absoluteCoordinate(lon, lat)
}

func parseRelativeCoordinate(r *bitReader, rel Coordinate) Coordinate {
	dLon := r.int(bitsRelCoord)
	dLat := r.int(bitsRelCoord)
	return relativeCoordinate(rel, dLon, dLat)
}

func parseFirstLRP(r *bitReader) LRP {
	coords := parseAbsoluteCoordinate(r)
	side, frc, fow := parseAttr1(r)
	lfrcnp, bear := parseAttr2(r)
	dnp := parseAttr3(r)
	return LRP{
		Coords:  coords,
		Bearing: bear,
		Side:    side,
		FRC:     frc,
		FOW:     fow,
		HasNext: true,
		LFRCNP:  lfrcnp,
		DNP:     distanceEstimate(dnp),
	}
}

func parseIntermediateLRP(r *bitReader, rel LRP) LRP {
	coords := parseRelativeCoordinate(r, rel.Coords)
	side, frc, fow := parseAttr1(r)
	lfrcnp, bear := parseAttr2(r)
	dnp := parseAttr3(r)
	return LRP{
		Coords:  coords,
		Bearing: bear,
		Side:    side,
		FRC:     frc,
		FOW:     fow,
		HasNext: true,
		LFRCNP:  lfrcnp,
		DNP:     distanceEstimate(dnp),
	}
}

// parseLastLineLRP reads the combined last-LRP attribute block: side,
// frc, fow, then the pofff/nofff offset-presence flags and bearing.
func parseLastLineLRP(r *bitReader, rel Coordinate) (lrp LRP, pofff, nofff bool) {
	coords := parseRelativeCoordinate(r, rel)
	side, frc, fow := parseAttr1(r)
	pf, nf, bear := parseAttr4(r)
	lrp = LRP{
		Coords:  coords,
		Bearing: bear,
		Side:    side,
		FRC:     frc,
		FOW:     fow,
		HasNext: false,
	}
	return lrp, pf == 1, nf == 1
}

func parseLastClosedLineAttrs(r *bitReader) (frc, fow, bear int) {
	frc, fow = parseAttr5(r)
	bear = parseAttr6(r)
	return
}

func parseOffset(r *bitReader) float64 {
	raw := int(r.uint(bitsOffset))
	if r.version == binaryVersion2 {
		return distanceEstimate(raw)
	}
	return relativeOffsetPercent(raw)
}

func parseRadius(r *bitReader, sizeBytes int) float64 {
	bits := sizeBytes * 8
	return float64(r.uint64(bits))
}

func parseGridDimensions(r *bitReader) (cols, rows uint16) {
	cols = uint16(r.uint(bitsGridCell))
	rows = uint16(r.uint(bitsGridCell))
	return
}

// --- per-variant parsers (§4.4) ---

func parseLine(r *bitReader, kind Kind) (Location, error) {
	numIntermediates := (r.numBytes() - minBytesLineLocation) / lrpSize
	flrp := parseFirstLRP(r)

	intermediates := make([]LRP, 0, numIntermediates)
	rel := flrp
	for i := 0; i < numIntermediates; i++ {
		ilrp := parseIntermediateLRP(r, rel)
		intermediates = append(intermediates, ilrp)
		rel = ilrp
	}

	llrp, pofff, nofff := parseLastLineLRP(r, rel.Coords)
	var poffs, noffs float64
	if pofff {
		poffs = parseOffset(r)
	}
	if nofff {
		noffs = parseOffset(r)
	}

	if len(intermediates)+2 < 2 {
		return Location{}, &ErrInvalidLocation{Reason: "line location must have at least 2 LRPs"}
	}

	return Location{
		Kind:          kind,
		Version:       r.version,
		FLRP:          flrp,
		Intermediates: intermediates,
		LLRP:          llrp,
		POffs:         poffs,
		NOffs:         noffs,
	}, nil
}

func parsePointAlongLine(r *bitReader, kind Kind) (Location, error) {
	flrp := parseFirstLRP(r)
	llrp, pofff, _ := parseLastLineLRP(r, flrp.Coords)
	var poffs float64
	if pofff {
		poffs = parseOffset(r)
	}
	return Location{Kind: kind, Version: r.version, FLRP: flrp, LLRP: llrp, POffs: poffs}, nil
}

func parseGeoCoordinates(r *bitReader, kind Kind) (Location, error) {
	coords := parseAbsoluteCoordinate(r)
	return Location{Kind: kind, Version: r.version, Coords: coords}, nil
}

func parsePoiWithAccessPoint(r *bitReader, kind Kind) (Location, error) {
	flrp := parseFirstLRP(r)
	llrp, pofff, _ := parseLastLineLRP(r, flrp.Coords)
	var poffs float64
	if pofff {
		poffs = parseOffset(r)
	}
	poi := parseRelativeCoordinate(r, flrp.Coords)
	return Location{Kind: kind, Version: r.version, FLRP: flrp, LLRP: llrp, POffs: poffs, POICoords: poi}, nil
}

func parseCircle(r *bitReader, kind Kind) (Location, error) {
	radiusSize := r.numBytes() - circleBaseSize
	coords := parseAbsoluteCoordinate(r)
	radius := parseRadius(r, radiusSize)
	return Location{Kind: kind, Version: r.version, Coords: coords, Radius: radius}, nil
}

func parseRectangle(r *bitReader, kind Kind) (Location, error) {
	bl := parseAbsoluteCoordinate(r)
	var tr Coordinate
	if r.numBytes() == largeRectangleSize {
		tr = parseAbsoluteCoordinate(r)
	} else {
		tr = parseRelativeCoordinate(r, bl)
	}
	return Location{Kind: kind, Version: r.version, BBox: BBox{bl.Lon, bl.Lat, tr.Lon, tr.Lat}}, nil
}

func parseGrid(r *bitReader, kind Kind) (Location, error) {
	bl := parseAbsoluteCoordinate(r)
	var tr Coordinate
	if r.numBytes() == largeGridSize {
		tr = parseAbsoluteCoordinate(r)
	} else {
		tr = parseRelativeCoordinate(r, bl)
	}
	cols, rows := parseGridDimensions(r)
	return Location{Kind: kind, Version: r.version, BBox: BBox{bl.Lon, bl.Lat, tr.Lon, tr.Lat}, Cols: cols, Rows: rows}, nil
}

func parseClosedLine(r *bitReader, kind Kind) (Location, error) {
	numIntermediates := (r.numBytes() - minBytesClosedLineLocation) / lrpSize
	flrp := parseFirstLRP(r)

	intermediates := make([]LRP, 0, numIntermediates)
	rel := flrp
	for i := 0; i < numIntermediates; i++ {
		ilrp := parseIntermediateLRP(r, rel)
		intermediates = append(intermediates, ilrp)
		rel = ilrp
	}

	frc, fow, bear := parseLastClosedLineAttrs(r)

	return Location{
		Kind:          kind,
		Version:       r.version,
		FLRP:          flrp,
		Intermediates: intermediates,
		LastFRC:       frc,
		LastFOW:       fow,
		LastBearing:   bear,
	}, nil
}

func parsePolygon(r *bitReader, kind Kind) (Location, error) {
	numIntermediates := 2 + (r.numBytes()-minBytesPolygon)/relativeCoordSize

	points := make([]Coordinate, 0, numIntermediates+1)
	rel := parseAbsoluteCoordinate(r)
	points = append(points, rel)
	for i := 0; i < numIntermediates; i++ {
		rel = parseRelativeCoordinate(r, rel)
		points = append(points, rel)
	}

	return Location{Kind: kind, Version: r.version, Points: points}, nil
}
