package sqlitedb

import (
	"testing"

	"github.com/beetlebugorg/openlr/pkg/openlr"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddNodeAndAddLineRoundTrip(t *testing.T) {
	db := openTestDatabase(t)

	if _, err := db.AddNode("a", openlr.Coordinate{Lon: 5.10, Lat: 52.10}); err != nil {
		t.Fatalf("AddNode a: %v", err)
	}
	if _, err := db.AddNode("b", openlr.Coordinate{Lon: 5.11, Lat: 52.10}); err != nil {
		t.Fatalf("AddNode b: %v", err)
	}
	if _, err := db.AddLine("ab", "a", "b", 3, 3, []openlr.Coordinate{
		{Lon: 5.10, Lat: 52.10}, {Lon: 5.11, Lat: 52.10},
	}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	nodes, err := db.FindClosebyNodes(openlr.Coordinate{Lon: 5.10, Lat: 52.10}, 50)
	if err != nil {
		t.Fatalf("FindClosebyNodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Ref.(string) != "a" {
		t.Fatalf("nodes = %+v, want just node a", nodes)
	}
}

func TestConnectedLinesReturnsAddedLine(t *testing.T) {
	db := openTestDatabase(t)
	if _, err := db.AddNode("a", openlr.Coordinate{Lon: 0, Lat: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := db.AddNode("b", openlr.Coordinate{Lon: 1, Lat: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := db.AddLine("ab", "a", "b", 3, 3, []openlr.Coordinate{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	lines, err := db.ConnectedLines(openlr.Node{Ref: "a"}, 7, openlr.BearDirWith)
	if err != nil {
		t.Fatalf("ConnectedLines: %v", err)
	}
	if len(lines) != 1 || lines[0].ID.UUID != "ab" {
		t.Fatalf("lines = %+v, want just ab", lines)
	}
}

func TestCalculateRouteDirectConnection(t *testing.T) {
	db := openTestDatabase(t)
	if _, err := db.AddNode("a", openlr.Coordinate{Lon: 0, Lat: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := db.AddNode("b", openlr.Coordinate{Lon: 1, Lat: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := db.AddNode("c", openlr.Coordinate{Lon: 2, Lat: 0}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := db.AddLine("ab", "a", "b", 3, 3, []openlr.Coordinate{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}); err != nil {
		t.Fatalf("AddLine ab: %v", err)
	}
	if _, err := db.AddLine("bc", "b", "c", 3, 3, []openlr.Coordinate{{Lon: 1, Lat: 0}, {Lon: 2, Lat: 0}}); err != nil {
		t.Fatalf("AddLine bc: %v", err)
	}

	ab := openlr.Line{ID: openlr.LineID{UUID: "ab"}, Len: db.lines["ab"].length}
	bc := openlr.Line{ID: openlr.LineID{UUID: "bc"}, Len: db.lines["bc"].length}

	result, err := db.CalculateRoute(ab, bc, 1000000, 7, true)
	if err != nil {
		t.Fatalf("CalculateRoute: %v", err)
	}
	if len(result.Edges) != 2 {
		t.Fatalf("Edges = %+v, want [ab, bc]", result.Edges)
	}
}
