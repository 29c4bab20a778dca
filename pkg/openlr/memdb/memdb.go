// Package memdb is an in-memory, R-tree-indexed MapDatabase reference
// implementation for the openlr package's map-matching decoder.
package memdb

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/beetlebugorg/openlr/pkg/openlr"
	"github.com/dhconnelly/rtreego"
)

// lineRecord is the canonical, direction-agnostic storage of one
// physical line between two nodes.
type lineRecord struct {
	id       string
	from, to string
	frc, fow int
	geometry []openlr.Coordinate
	length   float64
}

// Bounds implements rtreego.Spatial so line bounding boxes can be
// indexed for projection queries (FindClosebyLines).
type indexedLine struct {
	rec  *lineRecord
	rect rtreego.Rect
}

func (l *indexedLine) Bounds() rtreego.Rect { return l.rect }

// indexedNode wraps a node id for R-tree storage (FindClosebyNodes).
type indexedNode struct {
	id    string
	coord openlr.Coordinate
}

func (n *indexedNode) Bounds() rtreego.Rect {
	const epsilon = 1e-5
	point := rtreego.Point{n.coord.Lon, n.coord.Lat}
	rect, _ := rtreego.NewRect(point, []float64{epsilon, epsilon})
	return rect
}

// Database is an in-memory graph of nodes and lines, queryable the way
// an OpenLR map-matching decoder needs (§4.6-§4.7): nearby nodes, nearby
// lines by projection, a node's connected lines, and shortest-path
// routing between two candidate lines.
type Database struct {
	nodes map[string]openlr.Coordinate
	lines map[string]*lineRecord

	// adjacency maps a node id to every line that touches it (as From
	// or To), used by ConnectedLines and CalculateRoute.
	adjacency map[string][]*lineRecord

	nodeTree *rtreego.Rtree
	lineTree *rtreego.Rtree
}

// NewDatabase creates an empty in-memory map database.
func NewDatabase() *Database {
	return &Database{
		nodes:     make(map[string]openlr.Coordinate),
		lines:     make(map[string]*lineRecord),
		adjacency: make(map[string][]*lineRecord),
		nodeTree:  rtreego.NewTree(2, 25, 50),
		lineTree:  rtreego.NewTree(2, 25, 50),
	}
}

// AddNode registers a node at coord under id. Lines reference nodes by
// this id via AddLine.
func (db *Database) AddNode(id string, coord openlr.Coordinate) {
	db.nodes[id] = coord
	db.nodeTree.Insert(&indexedNode{id: id, coord: coord})
}

// AddLine registers a directed physical line from "from" to "to" with
// the given functional road class, form of way, and geometry (at least
// two coordinates, first matching "from"'s location and last matching
// "to"'s). Returns an error if either endpoint node is unknown.
func (db *Database) AddLine(id, from, to string, frc, fow int, geometry []openlr.Coordinate) error {
	if _, ok := db.nodes[from]; !ok {
		return fmt.Errorf("memdb: unknown from-node %q for line %q", from, id)
	}
	if _, ok := db.nodes[to]; !ok {
		return fmt.Errorf("memdb: unknown to-node %q for line %q", to, id)
	}
	if len(geometry) < 2 {
		return fmt.Errorf("memdb: line %q needs at least two geometry points", id)
	}

	rec := &lineRecord{
		id:       id,
		from:     from,
		to:       to,
		frc:      frc,
		fow:      fow,
		geometry: geometry,
		length:   lineLengthMeters(geometry),
	}
	db.lines[id] = rec
	db.adjacency[from] = append(db.adjacency[from], rec)
	if to != from {
		db.adjacency[to] = append(db.adjacency[to], rec)
	}

	minLon, maxLon := geometry[0].Lon, geometry[0].Lon
	minLat, maxLat := geometry[0].Lat, geometry[0].Lat
	for _, c := range geometry[1:] {
		minLon, maxLon = minF(minLon, c.Lon), maxF(maxLon, c.Lon)
		minLat, maxLat = minF(minLat, c.Lat), maxF(maxLat, c.Lat)
	}
	const epsilon = 1e-5
	if maxLon-minLon < epsilon {
		maxLon = minLon + epsilon
	}
	if maxLat-minLat < epsilon {
		maxLat = minLat + epsilon
	}
	point := rtreego.Point{minLon, minLat}
	rect, _ := rtreego.NewRect(point, []float64{maxLon - minLon, maxLat - minLat})
	db.lineTree.Insert(&indexedLine{rec: rec, rect: rect})

	return nil
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// degreesPerMeter is a coarse meters-to-degrees-of-latitude conversion
// used only to size the R-tree query rectangle, whose longitude side is
// widened by 1/cos(latitude); haversineMeters re-checks every candidate
// exactly.
const degreesPerMeter = 1.0 / 111000.0

// FindClosebyNodes returns nodes within maxDistance meters of coords.
func (db *Database) FindClosebyNodes(coords openlr.Coordinate, maxDistance float64) ([]openlr.Node, error) {
	margin := maxDistance * degreesPerMeter
	lonMargin := margin / math.Cos(toRadians(coords.Lat))
	point := rtreego.Point{coords.Lon - lonMargin, coords.Lat - margin}
	rect, _ := rtreego.NewRect(point, []float64{2 * lonMargin, 2 * margin})

	var out []openlr.Node
	for _, sp := range db.nodeTree.SearchIntersect(rect) {
		n := sp.(*indexedNode)
		d := haversineMeters(coords, n.coord)
		if d <= maxDistance {
			out = append(out, openlr.Node{Ref: n.id, Distance: d})
		}
	}
	return out, nil
}

// FindClosebyLines returns lines whose geometry passes within
// maxDistance meters of coords by projection, restricted to frcMax.
func (db *Database) FindClosebyLines(coords openlr.Coordinate, maxDistance float64, frcMax int, beardir openlr.BearDir) ([]openlr.LineAtDistance, error) {
	margin := maxDistance * degreesPerMeter
	lonMargin := margin / math.Cos(toRadians(coords.Lat))
	point := rtreego.Point{coords.Lon - lonMargin, coords.Lat - margin}
	rect, _ := rtreego.NewRect(point, []float64{2 * lonMargin, 2 * margin})

	var out []openlr.LineAtDistance
	for _, sp := range db.lineTree.SearchIntersect(rect) {
		il := sp.(*indexedLine)
		if il.rec.frc > frcMax {
			continue
		}
		dist, along := projectPoint(il.rec.geometry, coords)
		if dist > maxDistance {
			continue
		}
		projected := along
		line := db.toLine(il.rec, false, startBearingSector(il.rec))
		line.ProjectedLen = &projected
		out = append(out, openlr.LineAtDistance{Line: line, Distance: dist})
	}
	return out, nil
}

func startBearingSector(rec *lineRecord) int {
	return bearingSector(initialBearingDegrees(rec.geometry[0], rec.geometry[1]))
}

func endBearingSector(rec *lineRecord) int {
	n := len(rec.geometry)
	return bearingSector(initialBearingDegrees(rec.geometry[n-1], rec.geometry[n-2]))
}

func (db *Database) toLine(rec *lineRecord, reversed bool, bearing int) openlr.Line {
	return openlr.Line{
		ID:         openlr.LineID{UUID: rec.id, Reversed: reversed},
		Bearing:    bearing,
		FRC:        rec.frc,
		FOW:        rec.fow,
		Len:        rec.length,
		DBReversed: reversed,
	}
}

// ConnectedLines returns the traversals attached to node, restricted to
// frcMax. For BearDirWith these are the traversals leaving node, with
// the bearing of travel away from it; for BearDirAgainst they are the
// traversals arriving at node, with the bearing seen looking back along
// the line from node — the convention the last LRP of a chain is rated
// against (§4.5-§4.6).
func (db *Database) ConnectedLines(node openlr.Node, frcMax int, beardir openlr.BearDir) ([]openlr.Line, error) {
	nodeID, ok := node.Ref.(string)
	if !ok {
		return nil, fmt.Errorf("memdb: node ref %v is not a node id", node.Ref)
	}

	var out []openlr.Line
	for _, rec := range db.adjacency[nodeID] {
		if rec.frc > frcMax {
			continue
		}
		if beardir == openlr.BearDirAgainst {
			if rec.to == nodeID {
				out = append(out, db.toLine(rec, false, endBearingSector(rec)))
			}
			if rec.from == nodeID && rec.to != rec.from {
				out = append(out, db.toLine(rec, true, startBearingSector(rec)))
			}
			continue
		}
		if rec.from == nodeID {
			out = append(out, db.toLine(rec, false, startBearingSector(rec)))
		}
		if rec.to == nodeID && rec.to != rec.from {
			out = append(out, db.toLine(rec, true, endBearingSector(rec)))
		}
	}
	return out, nil
}

// endpointNodes returns the node a line starts from and the node it
// ends at, given its traversal direction.
func endpointNodes(db *Database, l openlr.Line) (start, end string) {
	rec := db.lines[l.ID.UUID]
	if l.ID.Reversed {
		return rec.to, rec.from
	}
	return rec.from, rec.to
}

// CalculateRoute finds the shortest path from the node l1 ends at to
// the node l2 begins at, restricted to lfrc and bounded by maxDistance,
// and returns the full stitched edge sequence from l1 through l2
// inclusive (§4.7).
func (db *Database) CalculateRoute(l1, l2 openlr.Line, maxDistance float64, lfrc int, isLastPair bool) (openlr.RouteResult, error) {
	_, l1End := endpointNodes(db, l1)
	l2Start, _ := endpointNodes(db, l2)

	if l1End == l2Start {
		return openlr.RouteResult{Edges: []openlr.Line{l1, l2}, Length: l1.Len + l2.Len}, nil
	}

	path, length, ok := db.shortestPath(l1End, l2Start, lfrc, maxDistance-l1.Len-l2.Len)
	if !ok {
		return openlr.RouteResult{}, &openlr.ErrRouteNotFound{}
	}

	edges := make([]openlr.Line, 0, len(path)+2)
	edges = append(edges, l1)
	edges = append(edges, path...)
	edges = append(edges, l2)

	return openlr.RouteResult{Edges: edges, Length: l1.Len + length + l2.Len}, nil
}

type dijkstraItem struct {
	node string
	dist float64
	idx  int
}

type dijkstraQueue []*dijkstraItem

func (q dijkstraQueue) Len() int            { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q dijkstraQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].idx, q[j].idx = i, j }
func (q *dijkstraQueue) Push(x interface{}) {
	item := x.(*dijkstraItem)
	item.idx = len(*q)
	*q = append(*q, item)
}
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// shortestPath runs Dijkstra's algorithm over the line graph from
// "from" to "to", considering only edges with FRC <= lfrc and stopping
// once the accumulated distance exceeds budget. It returns the
// intermediate edges (neither the entry nor exit line) in traversal
// order, their total length, and whether a path was found.
func (db *Database) shortestPath(from, to string, lfrc int, budget float64) ([]openlr.Line, float64, bool) {
	if budget < 0 {
		budget = 0
	}

	dist := map[string]float64{from: 0}
	prevEdge := map[string]openlr.Line{}
	prevNode := map[string]string{}
	visited := map[string]bool{}

	pq := &dijkstraQueue{{node: from, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*dijkstraItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		if cur.node == to {
			break
		}

		for _, rec := range db.adjacency[cur.node] {
			if rec.frc > lfrc {
				continue
			}

			var next string
			var reversed bool
			switch cur.node {
			case rec.from:
				next, reversed = rec.to, false
			case rec.to:
				next, reversed = rec.from, true
			default:
				continue
			}
			if visited[next] {
				continue
			}

			nd := cur.dist + rec.length
			if nd > budget {
				continue
			}
			if existing, ok := dist[next]; !ok || nd < existing {
				dist[next] = nd
				bearing := startBearingSector(rec)
				if reversed {
					bearing = endBearingSector(rec)
				}
				prevEdge[next] = db.toLine(rec, reversed, bearing)
				prevNode[next] = cur.node
				heap.Push(pq, &dijkstraItem{node: next, dist: nd})
			}
		}
	}

	if _, ok := dist[to]; !ok {
		return nil, 0, false
	}

	var path []openlr.Line
	node := to
	for node != from {
		edge := prevEdge[node]
		path = append([]openlr.Line{edge}, path...)
		node = prevNode[node]
	}

	return path, dist[to], true
}
