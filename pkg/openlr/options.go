package openlr

import internal "github.com/beetlebugorg/openlr/internal/openlr"

// DecoderOptions tunes the map-matching decoder's rating, candidate
// search, and route resolution behavior (§4.5-§4.8).
type DecoderOptions struct {
	// FRCVariance widens the functional road class accepted when
	// querying candidate lines (lrp.FRC + FRCVariance).
	FRCVariance int

	// MaxNodeDist is the search radius, in meters, used when looking
	// for nodes/lines close to an LRP coordinate.
	MaxNodeDist float64

	// MinAccRating is the minimum combined rating a candidate line must
	// reach to be kept. The combined rating is 3*(MaxNodeDist - distance)
	// plus 3*(FRC + FOW + bearing ratings), so at most 1200 with the
	// default MaxNodeDist of 100.
	MinAccRating int

	// DNPVariance widens the maximum route distance accepted beyond an
	// LRP's encoded distance-to-next-point, in meters.
	DNPVariance float64

	// MaxRetry is how many additional candidate pairs the route walk
	// tries after its first choice fails for a given LRP pair.
	MaxRetry int

	// FindLinesDirectly also searches for candidate lines by projecting
	// onto nearby geometry, not just lines attached to nearby nodes.
	FindLinesDirectly bool
}

// DefaultDecoderOptions returns the tuning values used throughout the
// reference rating and route resolution implementation (§4.5-§4.8).
func DefaultDecoderOptions() DecoderOptions {
	cfg := internal.DefaultDecoderConfig()
	return DecoderOptions{
		FRCVariance:       cfg.FRCVariance,
		MaxNodeDist:       cfg.MaxNodeDist,
		MinAccRating:      cfg.MinAccRating,
		DNPVariance:       cfg.DNPVariance,
		MaxRetry:          cfg.MaxRetry,
		FindLinesDirectly: cfg.FindLinesDirectly,
	}
}

func (o DecoderOptions) toInternal() internal.DecoderConfig {
	return internal.DecoderConfig{
		FRCVariance:       o.FRCVariance,
		MaxNodeDist:       o.MaxNodeDist,
		MinAccRating:      o.MinAccRating,
		DNPVariance:       o.DNPVariance,
		MaxRetry:          o.MaxRetry,
		FindLinesDirectly: o.FindLinesDirectly,
	}
}
