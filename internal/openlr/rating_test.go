package openlr

import "testing"

func TestFOWRatingSymmetric(t *testing.T) {
	for a := 0; a < 8; a++ {
		for b := 0; b < 8; b++ {
			if fowRating(a, b) != fowRating(b, a) {
				t.Errorf("fowRating(%d,%d)=%d != fowRating(%d,%d)=%d", a, b, fowRating(a, b), b, a, fowRating(b, a))
			}
		}
	}
}

func TestFOWRatingPoorIsTwentyFive(t *testing.T) {
	// motorway vs single-carriageway is categorized Poor, which carries
	// a rating of 25, not 0.
	if got := fowRating(fowMotorway, fowSingleCarriageway); got != 25 {
		t.Errorf("fowRating(motorway, single) = %d, want 25", got)
	}
}

func TestFOWRatingExcellentOnExactMatch(t *testing.T) {
	for f := 0; f < 8; f++ {
		// An undefined form of way rates Average even against itself.
		want := 100
		if f == fowUndefined {
			want = 50
		}
		if got := fowRating(f, f); got != want {
			t.Errorf("fowRating(%d,%d) = %d, want %d", f, f, got, want)
		}
	}
}

func TestFRCRating(t *testing.T) {
	cases := []struct{ lrp, line, want int }{
		{3, 3, 100},
		{3, 4, 75},
		{3, 2, 75},
		{3, 5, 50},
		{3, 1, 50},
		{3, 6, 0},
		{3, 0, 0},
	}
	for _, c := range cases {
		if got := frcRating(c.lrp, c.line); got != c.want {
			t.Errorf("frcRating(%d,%d) = %d, want %d", c.lrp, c.line, got, c.want)
		}
	}
}

func TestBearingRatingRejectsBeyondNinetyDegrees(t *testing.T) {
	if got := bearingRating(0, 9); got != -1 {
		t.Errorf("bearingRating(0,9) = %d, want -1 (9 sectors = 101.25 degrees)", got)
	}
	if got := bearingRating(0, 8); got == -1 {
		t.Errorf("bearingRating(0,8) = %d, want a valid rating (8 sectors = 90 degrees)", got)
	}
}

func TestBearingRatingWrapsAroundCircle(t *testing.T) {
	// Sectors 1 and 31 are adjacent around the 0/31 wrap point: the
	// folded difference is 2, not 30.
	got := bearingRating(1, 31)
	want := bearingRating(0, 2)
	if got != want {
		t.Errorf("bearingRating(1,31) = %d, want %d (same folded diff as bearingRating(0,2))", got, want)
	}
}

func TestDistanceRatingFloorsAtZero(t *testing.T) {
	if got := distanceRating(100, 250); got != 0 {
		t.Errorf("distanceRating(100,250) = %d, want 0", got)
	}
	if got := distanceRating(100, 0); got != 100 {
		t.Errorf("distanceRating(100,0) = %d, want 100", got)
	}
}

func TestRatingCalculatorRejectsOnBadBearing(t *testing.T) {
	rc := ratingCalculator{maxNodeDist: 100}
	lrp := LRP{Bearing: 0, FRC: 3, FOW: 3}
	line := Line{Bearing: 20, FRC: 3, FOW: 3}
	if got := rc.rating(lrp, line, 0); got != -1 {
		t.Errorf("rating with 225-degree bearing mismatch = %d, want -1", got)
	}
}

func TestRatingCalculatorCombinesNodeAndLineScores(t *testing.T) {
	rc := ratingCalculator{maxNodeDist: 100}
	lrp := LRP{Bearing: 0, FRC: 3, FOW: 3}
	line := Line{Bearing: 0, FRC: 3, FOW: 3}
	got := rc.rating(lrp, line, 0)
	want := 100*3 + (100+100+100)*3
	if got != want {
		t.Errorf("rating = %d, want %d", got, want)
	}
}
