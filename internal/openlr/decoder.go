package openlr

import "math"

// MatchResult is the map-matched outcome of decoding a Location: the
// edge sequence it resolves to on the target map, plus how far into the
// first/last edge the location actually starts/ends (§4.8).
type MatchResult struct {
	Edges []Line

	// PositiveOffset is meters into Edges[0] where the location starts.
	PositiveOffset float64

	// NegativeOffset is meters back from the end of Edges[len-1] where
	// the location ends. Always 0 for point locations.
	NegativeOffset float64

	// POICoords carries the POI coordinate through unchanged, populated
	// only when the decoded Location is a PoiWithAccessPointLocation.
	POICoords Coordinate
	HasPOI    bool
}

// DecoderConfig holds the tuning knobs for map-matching (§4.5-§4.8).
// Exported defaults live in pkg/openlr; the zero value is not usable.
type DecoderConfig struct {
	FRCVariance       int
	MaxNodeDist       float64
	MinAccRating      int
	DNPVariance       float64
	MaxRetry          int
	FindLinesDirectly bool
}

// DefaultDecoderConfig returns the tuning values used throughout the
// reference decoder/rating implementation (§4.5-§4.8).
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		FRCVariance:       defaultFRCVariance,
		MaxNodeDist:       defaultMaxNodeDist,
		MinAccRating:      defaultMinAccRating,
		DNPVariance:       defaultDNPVariance,
		MaxRetry:          defaultMaxRetry,
		FindLinesDirectly: true,
	}
}

// Decoder map-matches parsed Locations against a MapDatabase (§4).
type Decoder struct {
	DB     MapDatabase
	Config DecoderConfig
}

// NewDecoder builds a Decoder for db using cfg.
func NewDecoder(db MapDatabase, cfg DecoderConfig) *Decoder {
	return &Decoder{DB: db, Config: cfg}
}

// Decode map-matches loc, dispatching to the line or point resolver by
// Kind. Purely geometric locations (coordinates, circles, rectangles,
// grids, polygons) carry no map reference and are returned with an
// empty MatchResult.
func (d *Decoder) Decode(loc Location) (MatchResult, error) {
	switch loc.Kind {
	case KindLineLocation, KindClosedLine:
		return d.decodeLine(loc)
	case KindPointAlongLine:
		return d.decodePoint(loc)
	case KindPoiWithAccessPoint:
		result, err := d.decodePoint(loc)
		if err != nil {
			return MatchResult{}, err
		}
		result.POICoords = loc.POICoords
		result.HasPOI = true
		return result, nil
	default:
		return MatchResult{}, nil
	}
}

func (d *Decoder) resolver() routeResolver {
	return routeResolver{
		db:          d.DB,
		frcVariance: d.Config.FRCVariance,
		dnpVariance: d.Config.DNPVariance,
		maxRetry:    d.Config.MaxRetry,
	}
}

// buildCandidates rates and filters candidate lines for every LRP in
// loc's chain (§4.6). The last LRP is queried against the direction
// lines arrive from (BearDirAgainst); every other LRP against the
// direction lines leave in (BearDirWith).
func (d *Decoder) buildCandidates(loc Location) ([]lrpCandidates, error) {
	lrps := loc.lrps()
	rc := ratingCalculator{maxNodeDist: d.Config.MaxNodeDist}

	cands := make([]lrpCandidates, len(lrps))
	for i, lrp := range lrps {
		beardir := BearDirWith
		if i == len(lrps)-1 {
			beardir = BearDirAgainst
		}

		found, err := findCandidateLines(d.DB, rc, lrp, d.Config.FRCVariance, d.Config.MinAccRating, d.Config.FindLinesDirectly, beardir)
		if err != nil {
			if _, ok := err.(*ErrNoCandidateLines); ok {
				return nil, &ErrNoCandidateLines{LRPIndex: i}
			}
			return nil, err
		}
		cands[i] = lrpCandidates{lrp: lrp, candidates: found}
	}
	return cands, nil
}

// decodeLine resolves a line (or closed-line) location's full path and
// prunes its positive/negative offsets from each end (§4.7-§4.8). The
// head and tail lengths that version 3 offsets are scaled against are
// the first and last sub-routes' lengths as resolved; they are not
// corrected for projection-anchored end edges.
func (d *Decoder) decodeLine(loc Location) (MatchResult, error) {
	cands, err := d.buildCandidates(loc)
	if err != nil {
		return MatchResult{}, err
	}

	routes, err := d.resolver().resolve(loc, cands)
	if err != nil {
		return MatchResult{}, err
	}

	routeLength := totalLength(routes)
	headLen := routes[0].Length
	tailLen := routes[len(routes)-1].Length
	poffM, _ := offsetsToMeters(loc.Version, loc.POffs, 0, headLen)
	_, noffM := offsetsToMeters(loc.Version, 0, loc.NOffs, tailLen)

	if poffM+noffM > 2*routeLength {
		return MatchResult{}, &ErrInvalidLocation{Reason: "offsets exceed twice the resolved route length"}
	}
	if poffM+noffM > routeLength && poffM+noffM > 0 {
		scale := routeLength / (poffM + noffM)
		poffM = math.Round(poffM * scale)
		noffM = math.Round(noffM * scale)
		for poffM+noffM > routeLength {
			if poffM > noffM {
				poffM--
			} else {
				noffM--
			}
		}
	}

	edges := flattenEdges(routes)
	edges, headResidual := pruneHead(edges, poffM)
	edges, tailResidual := pruneTail(edges, noffM)

	return MatchResult{Edges: edges, PositiveOffset: headResidual, NegativeOffset: tailResidual}, nil
}

// decodePoint resolves a point-along-line location's single sub-route
// and converts its positive offset (a percentage of the first edge for
// version 3, meters for version 2) into a residual within that edge
// (§4.7-§4.8). Point locations never carry a negative offset.
func (d *Decoder) decodePoint(loc Location) (MatchResult, error) {
	cands, err := d.buildCandidates(loc)
	if err != nil {
		return MatchResult{}, err
	}

	routes, err := d.resolver().resolve(loc, cands)
	if err != nil {
		return MatchResult{}, err
	}

	edges := flattenEdges(routes)
	if len(edges) == 0 {
		return MatchResult{}, &ErrInvalidLocation{Reason: "point location resolved to an empty route"}
	}

	lstart := edges[0]
	lend := edges[len(edges)-1]

	headLen := lstart.Len
	prunedLen := 0.0
	if lstart.isProjected() {
		prunedLen += *lstart.ProjectedLen
	}
	if len(edges) == 1 && lend.isProjected() {
		prunedLen += *lend.ProjectedLen
	}
	effective := headLen - prunedLen
	if effective < 0 {
		effective = 0
	}

	poffPercent := loc.POffs
	if loc.Version != binaryVersion3 {
		if headLen > 0 {
			poffPercent = loc.POffs / headLen * 100.0
		} else {
			poffPercent = 0
		}
	}

	poffs := math.Round(poffPercent/100.0*effective + 0)
	if lstart.isProjected() {
		poffs += *lstart.ProjectedLen
	}
	if poffs > headLen {
		poffs = headLen
	}

	prunedEdges, headResidual := pruneHead(edges, poffs)

	return MatchResult{Edges: prunedEdges, PositiveOffset: headResidual, NegativeOffset: 0}, nil
}
