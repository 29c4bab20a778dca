package openlr

import "fmt"

// ErrInvalidDataSize reports a byte buffer too short, or too long, for
// any recognized location variant.
type ErrInvalidDataSize struct {
	Got  int
	Want string
}

func (e *ErrInvalidDataSize) Error() string {
	return fmt.Sprintf("openlr: invalid data size: got %d bytes, want %s", e.Got, e.Want)
}

// ErrBinaryVersion reports a header version outside {2, 3}.
type ErrBinaryVersion struct {
	Version int
}

func (e *ErrBinaryVersion) Error() string {
	return fmt.Sprintf("openlr: unsupported binary version %d", e.Version)
}

// ErrInvalidHeader reports a header flag combination the classifier
// does not recognize, possibly in combination with the total byte length.
type ErrInvalidHeader struct {
	IsPoint   bool
	IsArea    bool
	HasAttrs  bool
	ARF       int
	NumBytes  int
}

func (e *ErrInvalidHeader) Error() string {
	return fmt.Sprintf("openlr: unrecognized header (point=%v area=%v attrs=%v arf=%d len=%d)",
		e.IsPoint, e.IsArea, e.HasAttrs, e.ARF, e.NumBytes)
}

// ErrInvalidLocation reports a location that parsed structurally but
// violates a decode-time invariant, such as offsets exceeding twice the
// stitched path length.
type ErrInvalidLocation struct {
	Reason string
}

func (e *ErrInvalidLocation) Error() string {
	return fmt.Sprintf("openlr: invalid location: %s", e.Reason)
}

// ErrNoCandidateLines reports that an LRP produced no acceptable
// candidate lines after rating and filtering.
type ErrNoCandidateLines struct {
	LRPIndex int
}

func (e *ErrNoCandidateLines) Error() string {
	return fmt.Sprintf("openlr: no candidate lines for LRP %d", e.LRPIndex)
}

// ErrRouteNotFound reports that the database could not find any route
// between a candidate pair within budget, for every candidate pair tried.
type ErrRouteNotFound struct {
	PairIndex int
}

func (e *ErrRouteNotFound) Error() string {
	return fmt.Sprintf("openlr: no route found for LRP pair %d", e.PairIndex)
}

// ErrRouteConstructionFailed reports a database-side failure to
// construct a route for a candidate pair (distinct from "not found":
// the database recognized the pair but failed internally).
type ErrRouteConstructionFailed struct {
	PairIndex int
	Cause     error
}

func (e *ErrRouteConstructionFailed) Error() string {
	return fmt.Sprintf("openlr: route construction failed for LRP pair %d: %v", e.PairIndex, e.Cause)
}

func (e *ErrRouteConstructionFailed) Unwrap() error { return e.Cause }

// errInvalidRouteLength signals that a resolved route's length falls
// below the LRP's dnp lower bound. The route walk treats this as a
// retry trigger (§7); it is not exported because it must never escape
// the resolver.
type errInvalidRouteLength struct {
	Got, Min float64
}

func (e *errInvalidRouteLength) Error() string {
	return fmt.Sprintf("openlr: route length %.1fm below minimum %.1fm", e.Got, e.Min)
}
