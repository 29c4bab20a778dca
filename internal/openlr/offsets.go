package openlr

import "math"

// flattenEdges concatenates every sub-route's edges into the single
// ordered path the location covers (§4.8).
func flattenEdges(routes []subRoute) []Line {
	var edges []Line
	for _, r := range routes {
		edges = append(edges, r.Edges...)
	}
	return edges
}

func totalLength(routes []subRoute) float64 {
	var total float64
	for _, r := range routes {
		total += r.Length
	}
	return total
}

// offsetsToMeters converts a location's positive/negative offsets to
// meters along routeLength (§4.8). In version 2 the offsets are already
// meters; in version 3 they are a percentage of routeLength and are
// scaled and rounded. decodeLine passes the first sub-route's length
// when converting the positive offset and the last sub-route's length
// when converting the negative one.
func offsetsToMeters(version int, poff, noff, routeLength float64) (float64, float64) {
	if version == binaryVersion3 {
		return math.Round(poff / 100.0 * routeLength), math.Round(noff / 100.0 * routeLength)
	}
	return poff, noff
}

// pruneHead drops whole edges from the front of edges while doing so
// still leaves at least one edge and the dropped length does not exceed
// off. It returns the remaining edges and the residual offset (meters
// into the first remaining edge) still to apply (§4.8).
func pruneHead(edges []Line, off float64) ([]Line, float64) {
	prunedLen := 0.0
	i := 0
	for len(edges)-i > 1 && prunedLen+edges[i].Len <= off {
		prunedLen += edges[i].Len
		i++
	}
	return edges[i:], off - prunedLen
}

// pruneTail is pruneHead's mirror image, dropping whole edges from the
// back of edges.
func pruneTail(edges []Line, off float64) ([]Line, float64) {
	prunedLen := 0.0
	j := len(edges)
	for j > 1 && prunedLen+edges[j-1].Len <= off {
		prunedLen += edges[j-1].Len
		j--
	}
	return edges[:j], off - prunedLen
}

