package openlr

import "testing"

func singleLineFixture() (*Decoder, Line) {
	l1 := Line{ID: LineID{UUID: "l1"}, Len: 100, Bearing: 0, FRC: 3, FOW: 3}
	db := &fakeDatabase{
		nodes:     []Node{{Ref: "n0", Distance: 0}},
		connected: map[string][]Line{"n0": {l1}},
	}
	return NewDecoder(db, DefaultDecoderConfig()), l1
}

func TestDecodeLinePrunesPositiveOffset(t *testing.T) {
	d, _ := singleLineFixture()
	flrp := LRP{Coords: Coordinate{}, Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, DNP: 0, HasNext: true}
	llrp := LRP{Coords: Coordinate{}, Bearing: 0, FRC: 3, FOW: 3}

	loc := Location{Kind: KindLineLocation, Version: binaryVersion3, FLRP: flrp, LLRP: llrp, POffs: 25, NOffs: 0}

	result, err := d.Decode(loc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(result.Edges) != 1 || result.Edges[0].ID.UUID != "l1" {
		t.Fatalf("Edges = %+v, want the single matched line", result.Edges)
	}
	if result.PositiveOffset != 25 {
		t.Errorf("PositiveOffset = %v, want 25", result.PositiveOffset)
	}
	if result.NegativeOffset != 0 {
		t.Errorf("NegativeOffset = %v, want 0", result.NegativeOffset)
	}
}

func TestDecodeLineRejectsOffsetsExceedingTwiceRouteLength(t *testing.T) {
	d, _ := singleLineFixture()
	flrp := LRP{Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, HasNext: true}
	llrp := LRP{Bearing: 0, FRC: 3, FOW: 3}

	loc := Location{Kind: KindLineLocation, Version: binaryVersion3, FLRP: flrp, LLRP: llrp, POffs: 150, NOffs: 150}

	_, err := d.Decode(loc)
	if _, ok := err.(*ErrInvalidLocation); !ok {
		t.Fatalf("err = %v, want *ErrInvalidLocation", err)
	}
}

func TestDecodeLineConvertsOffsetsAgainstHeadAndTailLengthSeparately(t *testing.T) {
	l1 := Line{ID: LineID{UUID: "l1"}, Len: 20, FRC: 3, FOW: 3}
	l2 := Line{ID: LineID{UUID: "l2"}, Len: 30, FRC: 3, FOW: 3}
	l3 := Line{ID: LineID{UUID: "l3"}, Len: 170, FRC: 3, FOW: 3}

	db := &fakeDatabase{
		nodesAt: map[Coordinate][]Node{
			{Lon: 0, Lat: 0}: {{Ref: "n0", Distance: 0}},
			{Lon: 1, Lat: 1}: {{Ref: "n1", Distance: 0}},
			{Lon: 2, Lat: 2}: {{Ref: "n2", Distance: 0}},
		},
		connected: map[string][]Line{
			"n0": {l1},
			"n1": {l2},
			"n2": {l3},
		},
		routeResults: map[string]RouteResult{
			"l1->l2": {Edges: []Line{l1, l2}, Length: 50},
			"l2->l3": {Edges: []Line{l2, l3}, Length: 200},
		},
	}

	cfg := DefaultDecoderConfig()
	cfg.MinAccRating = -1000
	d := NewDecoder(db, cfg)

	flrp := LRP{Coords: Coordinate{Lon: 0, Lat: 0}, Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, DNP: 50, HasNext: true}
	mid := LRP{Coords: Coordinate{Lon: 1, Lat: 1}, Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, DNP: 200, HasNext: true}
	llrp := LRP{Coords: Coordinate{Lon: 2, Lat: 2}, Bearing: 0, FRC: 3, FOW: 3}

	loc := Location{
		Kind:          KindLineLocation,
		Version:       binaryVersion3,
		FLRP:          flrp,
		Intermediates: []LRP{mid},
		LLRP:          llrp,
		POffs:         50,
		NOffs:         50,
	}

	result, err := d.Decode(loc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// head_len is routes[0].Length (50), tail_len is routes[-1].Length
	// (200); converting both offsets against a shared 250m total instead
	// would prune a different set of edges entirely.
	if len(result.Edges) != 3 {
		t.Fatalf("Edges = %+v, want 3 edges remaining", result.Edges)
	}
	if result.PositiveOffset != 5 {
		t.Errorf("PositiveOffset = %v, want 5 (50%% of the 50m head length)", result.PositiveOffset)
	}
	if result.NegativeOffset != 100 {
		t.Errorf("NegativeOffset = %v, want 100 (50%% of the 200m tail length)", result.NegativeOffset)
	}
}

func TestDecodePointComputesResidualOffsetWithinFirstEdge(t *testing.T) {
	d, _ := singleLineFixture()
	flrp := LRP{Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, HasNext: true}
	llrp := LRP{Bearing: 0, FRC: 3, FOW: 3}

	loc := Location{Kind: KindPointAlongLine, Version: binaryVersion3, FLRP: flrp, LLRP: llrp, POffs: 50}

	result, err := d.Decode(loc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.NegativeOffset != 0 {
		t.Errorf("NegativeOffset = %v, want 0 for a point location", result.NegativeOffset)
	}
	if result.PositiveOffset != 50 {
		t.Errorf("PositiveOffset = %v, want 50", result.PositiveOffset)
	}
}

func TestDecodePoiWithAccessPointCarriesPOICoordsThrough(t *testing.T) {
	d, _ := singleLineFixture()
	flrp := LRP{Bearing: 0, FRC: 3, FOW: 3, LFRCNP: 3, HasNext: true}
	llrp := LRP{Bearing: 0, FRC: 3, FOW: 3}
	poi := Coordinate{Lon: 5.1, Lat: 52.1}

	loc := Location{Kind: KindPoiWithAccessPoint, Version: binaryVersion3, FLRP: flrp, LLRP: llrp, POICoords: poi}

	result, err := d.Decode(loc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !result.HasPOI || result.POICoords != poi {
		t.Errorf("POICoords = %+v (HasPOI=%v), want %+v", result.POICoords, result.HasPOI, poi)
	}
}

func TestDecodeGeometricLocationsAreNotMapMatched(t *testing.T) {
	d, _ := singleLineFixture()
	result, err := d.Decode(Location{Kind: KindCircle, Coords: Coordinate{Lon: 1, Lat: 2}, Radius: 50})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(result.Edges) != 0 {
		t.Errorf("Edges = %+v, want none for a circle location", result.Edges)
	}
}
