package openlr

import "math"

// ratingCategory mirrors the four qualitative match levels a FRC/FOW/
// bearing comparison can fall into (§4.5), used to index the fixed
// numeric tables below.
type ratingCategory int

const (
	catExcellent ratingCategory = iota
	catGood
	catAverage
	catPoor
)

var frcRatingTable = map[ratingCategory]int{catExcellent: 100, catGood: 75, catAverage: 50, catPoor: 0}
var fowRatingTable = map[ratingCategory]int{catExcellent: 100, catGood: 50, catAverage: 50, catPoor: 25}
var bearRatingTable = map[ratingCategory]int{catExcellent: 100, catGood: 50, catAverage: 25, catPoor: 0}

const (
	maxBearDiffSectors = 8  // 90 degrees
	halfCircleSectors  = 16 // 180 degrees
	fullCircleSectors  = 32 // 360 degrees
)

// Form-of-way indices, matching the LRP.FOW / Line.FOW encoding (§3).
const (
	fowUndefined = iota
	fowMotorway
	fowMultipleCarriageway
	fowSingleCarriageway
	fowRoundabout
	fowTrafficSquare
	fowSliproad
	fowOther
)

// fowRatingCategories is the symmetric 8x8 table of qualitative FOW
// match categories, indexed [fow1][fow2] with fow1 <= fow2 (§4.5). Pairs
// left at the zero value (catExcellent) below the diagonal are never
// read; getFOWCategory always sorts its arguments first.
var fowRatingCategories = [8][8]ratingCategory{
	fowUndefined: {
		fowUndefined:           catAverage,
		fowMotorway:            catAverage,
		fowMultipleCarriageway: catAverage,
		fowSingleCarriageway:   catAverage,
		fowRoundabout:          catAverage,
		fowTrafficSquare:       catAverage,
		fowSliproad:            catAverage,
		fowOther:               catAverage,
	},
	fowMotorway: {
		fowMotorway:            catExcellent,
		fowMultipleCarriageway: catGood,
		fowSingleCarriageway:   catPoor,
		fowRoundabout:          catPoor,
		fowTrafficSquare:       catPoor,
		fowSliproad:            catPoor,
		fowOther:               catPoor,
	},
	fowMultipleCarriageway: {
		fowMultipleCarriageway: catExcellent,
		fowSingleCarriageway:   catGood,
		fowRoundabout:          catAverage,
		fowTrafficSquare:       catPoor,
		fowSliproad:            catPoor,
		fowOther:               catPoor,
	},
	fowSingleCarriageway: {
		fowSingleCarriageway: catExcellent,
		fowRoundabout:        catAverage,
		fowTrafficSquare:     catAverage,
		fowSliproad:          catPoor,
		fowOther:             catPoor,
	},
	fowRoundabout: {
		fowRoundabout:    catExcellent,
		fowTrafficSquare: catAverage,
		fowSliproad:      catPoor,
		fowOther:         catPoor,
	},
	fowTrafficSquare: {
		fowTrafficSquare: catExcellent,
		fowSliproad:      catPoor,
		fowOther:         catPoor,
	},
	fowSliproad: {
		fowSliproad: catExcellent,
		fowOther:    catPoor,
	},
	fowOther: {
		fowOther: catExcellent,
	},
}

func getFOWCategory(fow1, fow2 int) ratingCategory {
	if fow1 > fow2 {
		fow1, fow2 = fow2, fow1
	}
	return fowRatingCategories[fow1][fow2]
}

func frcRating(lrpFRC, lineFRC int) int {
	diff := abs(lrpFRC - lineFRC)
	switch {
	case diff == 0:
		return frcRatingTable[catExcellent]
	case diff == 1:
		return frcRatingTable[catGood]
	case diff == 2:
		return frcRatingTable[catAverage]
	default:
		return frcRatingTable[catPoor]
	}
}

func fowRating(lrpFOW, lineFOW int) int {
	return fowRatingTable[getFOWCategory(lrpFOW, lineFOW)]
}

// bearingRating returns -1 when the bearings differ by more than 90
// degrees (the candidate is rejected outright), else a rating in
// {0, 25, 50, 100} (§4.5).
func bearingRating(lrpBear, lineBear int) int {
	diff := abs(lrpBear - lineBear)
	if diff > halfCircleSectors {
		diff = fullCircleSectors - diff
	}
	if diff > maxBearDiffSectors {
		return -1
	}
	switch {
	case diff == 0:
		return bearRatingTable[catExcellent]
	case diff == 1:
		return bearRatingTable[catGood]
	case diff == 2:
		return bearRatingTable[catAverage]
	default:
		return bearRatingTable[catPoor]
	}
}

func distanceRating(maxNodeDist, dist float64) int {
	r := maxNodeDist - math.Round(dist)
	if r < 0 {
		return 0
	}
	return int(r)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ratingCalculator scores candidate lines against an LRP (§4.5).
type ratingCalculator struct {
	maxNodeDist float64
}

// rating returns the combined score for (lrp, line, dist), or -1 if the
// bearing rejects the candidate outright.
func (c ratingCalculator) rating(lrp LRP, line Line, dist float64) int {
	nodeRating := distanceRating(c.maxNodeDist, dist)
	bRating := bearingRating(lrp.Bearing, line.Bearing)
	if bRating < 0 {
		return -1
	}
	lineRating := frcRating(lrp.FRC, line.FRC) + fowRating(lrp.FOW, line.FOW) + bRating
	return nodeRating*3 + lineRating*3
}
