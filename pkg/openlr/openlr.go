// Package openlr provides a clean public API for parsing and map-matching
// OpenLR physical-format location references.
package openlr

import (
	"encoding/base64"
	"fmt"

	internal "github.com/beetlebugorg/openlr/internal/openlr"
)

// Type aliases re-export the parsed/decoded data model from the internal
// package unchanged; there is no encapsulation to buy here since these
// are plain data records, not behavior.
type (
	Coordinate     = internal.Coordinate
	BBox           = internal.BBox
	LRP            = internal.LRP
	Location       = internal.Location
	Kind           = internal.Kind
	Line           = internal.Line
	LineID         = internal.LineID
	Node           = internal.Node
	LineAtDistance = internal.LineAtDistance
	RouteResult    = internal.RouteResult
	MatchResult    = internal.MatchResult
	BearDir        = internal.BearDir
	MapDatabase    = internal.MapDatabase
)

const (
	KindLineLocation       = internal.KindLineLocation
	KindGeoCoordinates     = internal.KindGeoCoordinates
	KindPointAlongLine     = internal.KindPointAlongLine
	KindPoiWithAccessPoint = internal.KindPoiWithAccessPoint
	KindCircle             = internal.KindCircle
	KindPolygon            = internal.KindPolygon
	KindClosedLine         = internal.KindClosedLine
	KindRectangle          = internal.KindRectangle
	KindGrid               = internal.KindGrid

	BearDirWith    = internal.BearDirWith
	BearDirAgainst = internal.BearDirAgainst
)

// Error types surfaced by Parse* and Decoder methods (§7).
type (
	ErrInvalidDataSize         = internal.ErrInvalidDataSize
	ErrBinaryVersion           = internal.ErrBinaryVersion
	ErrInvalidHeader           = internal.ErrInvalidHeader
	ErrInvalidLocation         = internal.ErrInvalidLocation
	ErrNoCandidateLines        = internal.ErrNoCandidateLines
	ErrRouteNotFound           = internal.ErrRouteNotFound
	ErrRouteConstructionFailed = internal.ErrRouteConstructionFailed
)

// ParseReference parses a raw OpenLR physical-format buffer into a
// Location.
//
// Example:
//
//	loc, err := openlr.ParseReference(data)
func ParseReference(data []byte) (Location, error) {
	return internal.Parse(data)
}

// ParseBase64 decodes a base64-encoded OpenLR reference (the common
// interchange form, e.g. as carried in a TomTom/TMC feed) and parses it.
func ParseBase64(s string) (Location, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Location{}, fmt.Errorf("openlr: invalid base64 reference: %w", err)
	}
	return ParseReference(data)
}

// Decoder map-matches parsed locations against a MapDatabase.
//
// Create a Decoder with NewDecoder and use Decode, DecodeReference, or
// DecodeBase64 depending on what form the location is already in.
type Decoder struct {
	inner *internal.Decoder
}

// NewDecoder creates a Decoder bound to db using opts.
//
// Example:
//
//	decoder := openlr.NewDecoder(db, openlr.DefaultDecoderOptions())
//	result, err := decoder.DecodeBase64(ref)
func NewDecoder(db MapDatabase, opts DecoderOptions) *Decoder {
	return &Decoder{inner: internal.NewDecoder(db, opts.toInternal())}
}

// Decode map-matches an already-parsed Location.
func (d *Decoder) Decode(loc Location) (MatchResult, error) {
	return d.inner.Decode(loc)
}

// DecodeReference parses data and map-matches the result in one step.
func (d *Decoder) DecodeReference(data []byte) (MatchResult, error) {
	loc, err := ParseReference(data)
	if err != nil {
		return MatchResult{}, err
	}
	return d.Decode(loc)
}

// DecodeBase64 decodes, parses, and map-matches a base64-encoded
// reference in one step.
func (d *Decoder) DecodeBase64(s string) (MatchResult, error) {
	loc, err := ParseBase64(s)
	if err != nil {
		return MatchResult{}, err
	}
	return d.Decode(loc)
}
