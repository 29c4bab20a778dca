package openlr

import "testing"

// fakeDatabase is a minimal MapDatabase double for exercising the
// candidate search and route resolution logic without a real map.
type fakeDatabase struct {
	nodes        []Node
	nodesAt      map[Coordinate][]Node // overrides nodes when the query coords match
	connected    map[string][]Line     // keyed by node Ref.(string)
	closebyLines []LineAtDistance
	routeResults map[string]RouteResult // keyed by l1.ID.UUID+"->"+l2.ID.UUID
	routeErr     error
}

func (f *fakeDatabase) FindClosebyNodes(coords Coordinate, maxDistance float64) ([]Node, error) {
	if f.nodesAt != nil {
		return f.nodesAt[coords], nil
	}
	return f.nodes, nil
}

func (f *fakeDatabase) FindClosebyLines(coords Coordinate, maxDistance float64, frcMax int, beardir BearDir) ([]LineAtDistance, error) {
	return f.closebyLines, nil
}

func (f *fakeDatabase) ConnectedLines(node Node, frcMax int, beardir BearDir) ([]Line, error) {
	return f.connected[node.Ref.(string)], nil
}

func (f *fakeDatabase) CalculateRoute(l1, l2 Line, maxDistance float64, lfrc int, isLastPair bool) (RouteResult, error) {
	if f.routeErr != nil {
		return RouteResult{}, f.routeErr
	}
	key := l1.ID.UUID + "->" + l2.ID.UUID
	if r, ok := f.routeResults[key]; ok {
		return r, nil
	}
	return RouteResult{}, &ErrRouteNotFound{}
}

func TestFindCandidateLinesFiltersAndSorts(t *testing.T) {
	db := &fakeDatabase{
		nodes: []Node{{Ref: "n1", Distance: 0}, {Ref: "n2", Distance: 50}},
		connected: map[string][]Line{
			"n1": {{ID: LineID{UUID: "good"}, Bearing: 0, FRC: 3, FOW: 3}},
			"n2": {{ID: LineID{UUID: "poor"}, Bearing: 0, FRC: 6, FOW: 3}},
		},
	}
	rc := ratingCalculator{maxNodeDist: 100}
	lrp := LRP{Bearing: 0, FRC: 3, FOW: 3}

	cands, err := findCandidateLines(db, rc, lrp, 2, 800, false, BearDirWith)
	if err != nil {
		t.Fatalf("findCandidateLines: %v", err)
	}
	if len(cands) != 1 || cands[0].line.ID.UUID != "good" {
		t.Fatalf("cands = %+v, want only %q to pass the 800 threshold", cands, "good")
	}
}

func TestFindCandidateLinesGroupsByLineKeepingBest(t *testing.T) {
	db := &fakeDatabase{
		nodes: []Node{{Ref: "n1", Distance: 0}, {Ref: "n2", Distance: 10}},
		connected: map[string][]Line{
			"n1": {{ID: LineID{UUID: "x"}, Bearing: 2, FRC: 3, FOW: 3}},
			"n2": {{ID: LineID{UUID: "x"}, Bearing: 0, FRC: 3, FOW: 3}},
		},
	}
	rc := ratingCalculator{maxNodeDist: 100}
	lrp := LRP{Bearing: 0, FRC: 3, FOW: 3}

	cands, err := findCandidateLines(db, rc, lrp, 2, 0, false, BearDirWith)
	if err != nil {
		t.Fatalf("findCandidateLines: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("len(cands) = %d, want 1 (deduplicated by line id)", len(cands))
	}
	// The n2 observation (exact bearing match, despite the node being 10m
	// farther away) should win.
	want := rc.rating(lrp, Line{Bearing: 0, FRC: 3, FOW: 3}, 10)
	if cands[0].rating != want {
		t.Errorf("cands[0].rating = %d, want %d (best of the two observations)", cands[0].rating, want)
	}
}

func TestFindCandidateLinesReturnsErrorWhenEmpty(t *testing.T) {
	db := &fakeDatabase{}
	rc := ratingCalculator{maxNodeDist: 100}
	lrp := LRP{Bearing: 0, FRC: 3, FOW: 3}

	_, err := findCandidateLines(db, rc, lrp, 2, 800, false, BearDirWith)
	if _, ok := err.(*ErrNoCandidateLines); !ok {
		t.Fatalf("err = %v, want *ErrNoCandidateLines", err)
	}
}
