package openlr

import "sort"

// lrpCandidates pairs one LRP with its ranked candidate lines, the input
// shape the route resolver walks over (§4.7).
type lrpCandidates struct {
	lrp        LRP
	candidates []candidate
}

// subRoute is one resolved stretch of the path between two consecutive
// LRPs.
type subRoute struct {
	Edges  []Line
	Length float64
}

const (
	sameLineDegrade  = 0.10
	connectRouteIncr = 0.10
)

type pairScore struct {
	l1, l2 Line
	score  float64
}

// calculatePairs builds every (l1, l2) candidate pair across two
// consecutive LRPs' candidate lists with its combined score (§4.7 step 1).
func calculatePairs(lines1, lines2 []candidate, lastLine *LineID, isLastPair, isLineLocation bool) []pairScore {
	pairs := make([]pairScore, 0, len(lines1)*len(lines2))
	for _, c1 := range lines1 {
		score1 := float64(c1.rating)
		if lastLine != nil && c1.line.ID == *lastLine {
			score1 += connectRouteIncr * score1
		}
		for _, c2 := range lines2 {
			score2 := float64(c2.rating)
			if !isLastPair && isLineLocation && c2.line.ID == c1.line.ID {
				score2 -= sameLineDegrade * score2
			}
			pairs = append(pairs, pairScore{l1: c1.line, l2: c2.line, score: score1 * score2})
		}
	}
	return pairs
}

// singleLine checks whether every LRP's top-rated candidate is the same
// line, the §4.7 fast path.
func singleLine(cands []lrpCandidates) (Line, bool) {
	if len(cands) == 0 || len(cands[0].candidates) == 0 {
		return Line{}, false
	}
	sl := cands[0].candidates[0].line
	for _, c := range cands[1:] {
		if len(c.candidates) == 0 || c.candidates[0].line.ID != sl.ID {
			return Line{}, false
		}
	}
	return sl, true
}

// routeResolver resolves a location's LRP chain into an ordered list of
// sub-routes (§4.7).
type routeResolver struct {
	db          MapDatabase
	frcVariance int
	dnpVariance float64
	maxRetry    int
}

// resolve walks cands pairwise, per §4.7. The Open Question on ordering
// (§9(a)) is resolved as the fast path winning outright: it is checked
// before the pairwise walk ever runs.
func (rr routeResolver) resolve(location Location, cands []lrpCandidates) ([]subRoute, error) {
	if sl, ok := singleLine(cands); ok {
		return []subRoute{{Edges: []Line{sl}, Length: sl.Len}}, nil
	}

	isLineLocation := location.Kind == KindLineLocation

	var routes []subRoute
	var lastLine *LineID
	var prevLRP *LRP

	nrRetry := rr.maxRetry + 1

	for i := 0; i < len(cands)-1; i++ {
		lrp := cands[i].lrp
		lines := cands[i].candidates
		nextLines := cands[i+1].candidates
		isLastPair := i+1 == len(cands)-1

		pairs := calculatePairs(lines, nextLines, lastLine, isLastPair, isLineLocation)
		sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].score > pairs[b].score })

		attempts := pairs
		if len(attempts) > nrRetry {
			attempts = attempts[:nrRetry]
		}

		var (
			chosen    *subRoute
			skipAdd   bool
			chosenL2  Line
		)

		for _, p := range attempts {
			l1, l2 := p.l1, p.l2

			if l1.ID == l2.ID {
				if isLastPair {
					chosen = &subRoute{Edges: []Line{l1}, Length: l1.Len}
				} else {
					chosen = &subRoute{}
					skipAdd = true
				}
				chosenL2 = l2
				break
			}

			route, err := rr.calculateRoute(l1, l2, lrp, isLastPair)
			if err != nil {
				// RouteNotFound / RouteConstructionFailed / an internal
				// route-length violation: try the next candidate pair.
				continue
			}

			if lastLine != nil && *lastLine != l1.ID {
				if ok := rr.repairPreviousSubRoute(&routes, l1, prevLRP); !ok {
					// repair failed the same way a route search can fail;
					// try the next candidate pair for this position too.
					continue
				}
			}

			chosen = &subRoute{Edges: route.Edges, Length: route.Length}
			chosenL2 = l2
			break
		}

		if chosen == nil {
			return nil, &ErrRouteNotFound{PairIndex: i}
		}
		if !skipAdd {
			routes = append(routes, *chosen)
		}

		lrpCopy := lrp
		prevLRP = &lrpCopy
		id := chosenL2.ID
		lastLine = &id
	}

	return routes, nil
}

// calculateRoute resolves one LRP pair's shortest path (§4.7 step 3).
func (rr routeResolver) calculateRoute(l1, l2 Line, lrp LRP, isLastPair bool) (RouteResult, error) {
	lfrc := lrp.LFRCNP + rr.frcVariance
	maxDist := lrp.DNP + rr.dnpVariance
	if l1.isProjected() {
		maxDist += l1.Len
	}
	if l2.isProjected() {
		maxDist += l2.Len
	}

	result, err := rr.db.CalculateRoute(l1, l2, maxDist, lfrc, isLastPair)
	if err != nil {
		return RouteResult{}, err
	}

	length := result.Length
	if l2.isProjected() {
		if isLastPair {
			length -= l2.Len
		}
		length += *l2.ProjectedLen
	}

	minLen := lrp.DNP - rr.dnpVariance
	if minLen < 0 {
		minLen = 0
	}
	if minLen > length {
		return RouteResult{}, &errInvalidRouteLength{Got: length, Min: minLen}
	}

	return RouteResult{Edges: result.Edges, Length: length}, nil
}

// repairPreviousSubRoute recomputes the immediately preceding sub-route
// when the newly chosen l1 doesn't match the previously accepted
// end-line (§4.7 step 6). This is a one-step look-back only — it must
// never be generalized into full backtracking (§9).
func (rr routeResolver) repairPreviousSubRoute(routes *[]subRoute, newEnd Line, prevLRP *LRP) bool {
	if len(*routes) == 0 || prevLRP == nil {
		return true
	}
	prev := (*routes)[len(*routes)-1]
	if len(prev.Edges) == 0 {
		return true
	}
	lstart := prev.Edges[0]
	route, err := rr.calculateRoute(lstart, newEnd, *prevLRP, false)
	if err != nil {
		return false
	}
	(*routes)[len(*routes)-1] = subRoute{Edges: route.Edges, Length: route.Length}
	return true
}
