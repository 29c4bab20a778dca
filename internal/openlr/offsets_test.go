package openlr

import "testing"

func TestPruneHeadPopsWholeEdgesButKeepsAtLeastOne(t *testing.T) {
	edges := []Line{{ID: LineID{UUID: "a"}, Len: 100}, {ID: LineID{UUID: "b"}, Len: 100}}

	remaining, residual := pruneHead(edges, 120)
	if len(remaining) != 1 || remaining[0].ID.UUID != "b" {
		t.Fatalf("remaining = %+v, want only edge b", remaining)
	}
	if residual != 20 {
		t.Errorf("residual = %v, want 20", residual)
	}
}

func TestPruneHeadNeverEmptiesTheEdgeList(t *testing.T) {
	edges := []Line{{ID: LineID{UUID: "a"}, Len: 100}}
	remaining, residual := pruneHead(edges, 500)
	if len(remaining) != 1 {
		t.Fatalf("remaining = %+v, want the single edge kept", remaining)
	}
	if residual != 500 {
		t.Errorf("residual = %v, want 500 (offset exceeds the only edge)", residual)
	}
}

func TestPruneTailMirrorsPruneHead(t *testing.T) {
	edges := []Line{{ID: LineID{UUID: "a"}, Len: 100}, {ID: LineID{UUID: "b"}, Len: 100}}
	remaining, residual := pruneTail(edges, 120)
	if len(remaining) != 1 || remaining[0].ID.UUID != "a" {
		t.Fatalf("remaining = %+v, want only edge a", remaining)
	}
	if residual != 20 {
		t.Errorf("residual = %v, want 20", residual)
	}
}

func TestOffsetsToMetersVersion2PassesThrough(t *testing.T) {
	poff, noff := offsetsToMeters(binaryVersion2, 40, 10, 200)
	if poff != 40 || noff != 10 {
		t.Errorf("offsets = (%v, %v), want (40, 10) unchanged", poff, noff)
	}
}

func TestOffsetsToMetersVersion3ScalesByRouteLength(t *testing.T) {
	poff, noff := offsetsToMeters(binaryVersion3, 25, 10, 200)
	if poff != 50 {
		t.Errorf("poff = %v, want 50 (25%% of 200)", poff)
	}
	if noff != 20 {
		t.Errorf("noff = %v, want 20 (10%% of 200)", noff)
	}
}
