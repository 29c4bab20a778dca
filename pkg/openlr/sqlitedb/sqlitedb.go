// Package sqlitedb is a SQLite-backed MapDatabase reference
// implementation for the openlr package's map-matching decoder,
// suited to map data too large to comfortably hold as Go literals.
package sqlitedb

import (
	"container/heap"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"math"

	"github.com/beetlebugorg/openlr/pkg/openlr"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type lineRow struct {
	id       string
	from, to string
	frc, fow int
	length   float64
	geometry []openlr.Coordinate
}

// Database is a SQLite-backed map database. Nodes and lines are
// persisted to disk (or :memory:), and a small in-memory adjacency
// cache is kept for routing so CalculateRoute doesn't re-query the
// database on every graph step.
type Database struct {
	db    *sql.DB
	nodes map[string]openlr.Coordinate
	lines map[string]*lineRow
	adj   map[string][]*lineRow
}

// Open opens (creating if necessary) a SQLite database at dsn and
// applies pending migrations. Use "file:path/to.db" or ":memory:".
func Open(dsn string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: open %s: %w", dsn, err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("sqlitedb: ping %s: %w", dsn, err)
	}

	if err := applyMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	d := &Database{
		db:    sqlDB,
		nodes: make(map[string]openlr.Coordinate),
		lines: make(map[string]*lineRow),
		adj:   make(map[string][]*lineRow),
	}
	if err := d.loadCache(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func applyMigrations(sqlDB *sql.DB) error {
	srcDriver, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("sqlitedb: load migrations: %w", err)
	}

	dbDriver, err := sqlite.WithInstance(sqlDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlitedb: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("sqlitedb: migrate init: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("sqlitedb: migrate up: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (d *Database) Close() error { return d.db.Close() }

// AddNode inserts a node at coord. If id is empty, a random UUID is
// generated and returned.
func (d *Database) AddNode(id string, coord openlr.Coordinate) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := d.db.Exec(`INSERT INTO nodes (id, lon, lat) VALUES (?, ?, ?)`, id, coord.Lon, coord.Lat)
	if err != nil {
		return "", fmt.Errorf("sqlitedb: add node: %w", err)
	}
	d.nodes[id] = coord
	return id, nil
}

// AddLine inserts a directed physical line from "from" to "to". If id
// is empty, a random UUID is generated and returned.
func (d *Database) AddLine(id, from, to string, frc, fow int, geometry []openlr.Coordinate) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if len(geometry) < 2 {
		return "", fmt.Errorf("sqlitedb: line %q needs at least two geometry points", id)
	}

	geomJSON, err := json.Marshal(geometry)
	if err != nil {
		return "", fmt.Errorf("sqlitedb: marshal geometry: %w", err)
	}
	length := lineLengthMeters(geometry)

	_, err = d.db.Exec(
		`INSERT INTO lines (id, from_node, to_node, frc, fow, length_meters, geometry_json) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, from, to, frc, fow, length, string(geomJSON),
	)
	if err != nil {
		return "", fmt.Errorf("sqlitedb: add line: %w", err)
	}

	rec := &lineRow{id: id, from: from, to: to, frc: frc, fow: fow, length: length, geometry: geometry}
	d.lines[id] = rec
	d.adj[from] = append(d.adj[from], rec)
	if to != from {
		d.adj[to] = append(d.adj[to], rec)
	}
	return id, nil
}

// loadCache populates the in-memory adjacency cache from the database,
// used after Open so a freshly reopened database is immediately
// queryable.
func (d *Database) loadCache() error {
	nodeRows, err := d.db.Query(`SELECT id, lon, lat FROM nodes`)
	if err != nil {
		return fmt.Errorf("sqlitedb: load nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var id string
		var lon, lat float64
		if err := nodeRows.Scan(&id, &lon, &lat); err != nil {
			return fmt.Errorf("sqlitedb: scan node: %w", err)
		}
		d.nodes[id] = openlr.Coordinate{Lon: lon, Lat: lat}
	}

	lineRows, err := d.db.Query(`SELECT id, from_node, to_node, frc, fow, length_meters, geometry_json FROM lines`)
	if err != nil {
		return fmt.Errorf("sqlitedb: load lines: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var rec lineRow
		var geomJSON string
		if err := lineRows.Scan(&rec.id, &rec.from, &rec.to, &rec.frc, &rec.fow, &rec.length, &geomJSON); err != nil {
			return fmt.Errorf("sqlitedb: scan line: %w", err)
		}
		if err := json.Unmarshal([]byte(geomJSON), &rec.geometry); err != nil {
			return fmt.Errorf("sqlitedb: unmarshal geometry: %w", err)
		}

		r := rec
		d.lines[r.id] = &r
		d.adj[r.from] = append(d.adj[r.from], &r)
		if r.to != r.from {
			d.adj[r.to] = append(d.adj[r.to], &r)
		}
	}
	return nil
}

// FindClosebyNodes returns nodes within maxDistance meters of coords,
// pre-filtered by a SQL bounding box and confirmed with an exact
// haversine check.
func (d *Database) FindClosebyNodes(coords openlr.Coordinate, maxDistance float64) ([]openlr.Node, error) {
	margin := maxDistance * degreesPerMeter
	lonMargin := margin / math.Cos(toRadians(coords.Lat))
	rows, err := d.db.Query(
		`SELECT id, lon, lat FROM nodes WHERE lon BETWEEN ? AND ? AND lat BETWEEN ? AND ?`,
		coords.Lon-lonMargin, coords.Lon+lonMargin, coords.Lat-margin, coords.Lat+margin,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: find closeby nodes: %w", err)
	}
	defer rows.Close()

	var out []openlr.Node
	for rows.Next() {
		var id string
		var lon, lat float64
		if err := rows.Scan(&id, &lon, &lat); err != nil {
			return nil, fmt.Errorf("sqlitedb: scan node: %w", err)
		}
		c := openlr.Coordinate{Lon: lon, Lat: lat}
		if dist := haversineMeters(coords, c); dist <= maxDistance {
			out = append(out, openlr.Node{Ref: id, Distance: dist})
		}
	}
	return out, nil
}

// FindClosebyLines returns lines whose geometry passes within
// maxDistance meters of coords by projection, restricted to frcMax.
func (d *Database) FindClosebyLines(coords openlr.Coordinate, maxDistance float64, frcMax int, beardir openlr.BearDir) ([]openlr.LineAtDistance, error) {
	margin := maxDistance * degreesPerMeter
	rows, err := d.db.Query(
		`SELECT id, from_node, to_node, frc, fow, length_meters, geometry_json FROM lines
		 WHERE frc <= ?`,
		frcMax,
	)
	_ = margin // no bounding-box prefilter: every line with frc <= frcMax is projected below
	if err != nil {
		return nil, fmt.Errorf("sqlitedb: find closeby lines: %w", err)
	}
	defer rows.Close()

	var out []openlr.LineAtDistance
	for rows.Next() {
		var id, from, to string
		var frc, fow int
		var length float64
		var geomJSON string
		if err := rows.Scan(&id, &from, &to, &frc, &fow, &length, &geomJSON); err != nil {
			return nil, fmt.Errorf("sqlitedb: scan line: %w", err)
		}
		var geometry []openlr.Coordinate
		if err := json.Unmarshal([]byte(geomJSON), &geometry); err != nil {
			return nil, fmt.Errorf("sqlitedb: unmarshal geometry: %w", err)
		}

		dist, along := projectPoint(geometry, coords)
		if dist > maxDistance {
			continue
		}
		rec := &lineRow{id: id, from: from, to: to, frc: frc, fow: fow, length: length, geometry: geometry}
		line := toLine(rec, false, startBearingSector(rec))
		projected := along
		line.ProjectedLen = &projected
		out = append(out, openlr.LineAtDistance{Line: line, Distance: dist})
	}
	return out, nil
}

// ConnectedLines returns the traversals attached to node, using the
// in-memory adjacency cache (§4.6): for BearDirWith those leaving node,
// with the bearing of travel away from it; for BearDirAgainst those
// arriving at node, with the bearing seen looking back from node.
func (d *Database) ConnectedLines(node openlr.Node, frcMax int, beardir openlr.BearDir) ([]openlr.Line, error) {
	nodeID, ok := node.Ref.(string)
	if !ok {
		return nil, fmt.Errorf("sqlitedb: node ref %v is not a node id", node.Ref)
	}

	var out []openlr.Line
	for _, rec := range d.adj[nodeID] {
		if rec.frc > frcMax {
			continue
		}
		if beardir == openlr.BearDirAgainst {
			if rec.to == nodeID {
				out = append(out, toLine(rec, false, endBearingSector(rec)))
			}
			if rec.from == nodeID && rec.to != rec.from {
				out = append(out, toLine(rec, true, startBearingSector(rec)))
			}
			continue
		}
		if rec.from == nodeID {
			out = append(out, toLine(rec, false, startBearingSector(rec)))
		}
		if rec.to == nodeID && rec.to != rec.from {
			out = append(out, toLine(rec, true, endBearingSector(rec)))
		}
	}
	return out, nil
}

func endpointNodes(d *Database, l openlr.Line) (start, end string) {
	rec := d.lines[l.ID.UUID]
	if l.ID.Reversed {
		return rec.to, rec.from
	}
	return rec.from, rec.to
}

// CalculateRoute finds the shortest path from the node l1 ends at to
// the node l2 begins at, restricted to lfrc and bounded by maxDistance,
// mirroring memdb's Dijkstra-based resolution (§4.7).
func (d *Database) CalculateRoute(l1, l2 openlr.Line, maxDistance float64, lfrc int, isLastPair bool) (openlr.RouteResult, error) {
	_, l1End := endpointNodes(d, l1)
	l2Start, _ := endpointNodes(d, l2)

	if l1End == l2Start {
		return openlr.RouteResult{Edges: []openlr.Line{l1, l2}, Length: l1.Len + l2.Len}, nil
	}

	path, length, ok := d.shortestPath(l1End, l2Start, lfrc, maxDistance-l1.Len-l2.Len)
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
}

type dijkstraQueue []*dijkstraItem

func (q dijkstraQueue) Len() int           { return len(q) }
func (q dijkstraQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q dijkstraQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *dijkstraQueue) Push(x interface{}) {
	*q = append(*q, x.(*dijkstraItem))
}
func (q *dijkstraQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (d *Database) shortestPath(from, to string, lfrc int, budget float64) ([]openlr.Line, float64, bool) {
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

		for _, rec := range d.adj[cur.node] {
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
				prevEdge[next] = toLine(rec, reversed, bearing)
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

func toLine(rec *lineRow, reversed bool, bearing int) openlr.Line {
	return openlr.Line{
		ID:         openlr.LineID{UUID: rec.id, Reversed: reversed},
		Bearing:    bearing,
		FRC:        rec.frc,
		FOW:        rec.fow,
		Len:        rec.length,
		DBReversed: reversed,
	}
}
