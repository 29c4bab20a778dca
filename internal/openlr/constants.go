package openlr

// Byte sizes of the fixed-width blocks in the physical format (§4.4).
const (
	headerSize      = 1
	firstLRPSize    = 9
	lrpSize         = 7
	lastLRPSize     = 6
	absCoordSize    = 6
	relativeCoordSize = 4

	minBytesLineLocation       = headerSize + firstLRPSize + lastLRPSize // 16
	minBytesClosedLineLocation = headerSize + firstLRPSize + 2           // 12
	geoCoordSize               = headerSize + absCoordSize               // 7
	pointAlongLineSize         = headerSize + firstLRPSize + lastLRPSize // 16
	pointOffsetSize            = 1
	pointWithAccessSize        = headerSize + firstLRPSize + lastLRPSize + relativeCoordSize // 20
	circleBaseSize             = headerSize + absCoordSize                                   // 7
	rectangleSize              = headerSize + absCoordSize + relativeCoordSize               // 11
	largeRectangleSize         = headerSize + absCoordSize + absCoordSize                    // 13
	dimensionSize              = 2
	gridSize                   = rectangleSize + 2*dimensionSize      // 15
	largeGridSize              = largeRectangleSize + 2*dimensionSize // 17
	minBytesPolygon            = headerSize + absCoordSize + 2*relativeCoordSize // 15

	binaryVersion2       = 2
	binaryVersion3       = 3
	areaCodeCircle       = 0
	areaCodeRectangleGrid = 2
	areaCodePolygon      = 1
)

// bit widths for fixed-width fields (§6), named for the field they carry.
const (
	bitsRFU               = 1
	bitsAttrFlag           = 1
	bitsPointFlag          = 1
	bitsAreaFlagBit        = 1
	bitsVersion            = 3
	bitsSideOrOrientation  = 2
	bitsFRC                = 3
	bitsFOW                = 3
	bitsLFRCNP             = 3
	bitsBearing            = 5
	bitsDNP                = 8
	bitsOffsetFlag         = 1
	bitsGridCell           = 16
	bitsAbsCoord           = 24
	bitsRelCoord           = 16
	bitsOffset             = 8
)

// Kind identifies a parsed Location's variant. Locations are a single
// closed sum type (§9) dispatched on Kind, never an open interface
// hierarchy.
type Kind int

const (
	KindUnknown Kind = iota
	KindLineLocation
	KindGeoCoordinates
	KindPointAlongLine
	KindPoiWithAccessPoint
	KindCircle
	KindPolygon
	KindClosedLine
	KindRectangle
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindLineLocation:
		return "LineLocation"
	case KindGeoCoordinates:
		return "GeoCoordinateLocation"
	case KindPointAlongLine:
		return "PointAlongLineLocation"
	case KindPoiWithAccessPoint:
		return "PoiWithAccessPointLocation"
	case KindCircle:
		return "CircleLocation"
	case KindPolygon:
		return "PolygonLocation"
	case KindClosedLine:
		return "ClosedLineLocation"
	case KindRectangle:
		return "RectangleLocation"
	case KindGrid:
		return "GridLocation"
	default:
		return "Unknown"
	}
}

// Side and orientation share the same 2-bit encoding (§3): a line-attached
// LRP interprets it as Side, a point-along-line LRP as Orientation.
const (
	SideOrOrientationUnknown = 0
	SideRight                = 1
	SideLeft                 = 2
	SideBoth                 = SideRight | SideLeft

	OrientationWith    = 1
	OrientationAgainst = 2
	OrientationBoth    = OrientationWith | OrientationAgainst
)

// BearDir selects the traversal direction a candidate query is made in.
type BearDir int

const (
	BearDirWith BearDir = iota
	BearDirAgainst
)

const (
	defaultFRCVariance  = 2
	defaultMaxNodeDist  = 100.0
	defaultMinAccRating = 800
	defaultDNPVariance  = 118.0
	defaultMaxRetry     = 3 // plus the first attempt: 4 attempts total
)
