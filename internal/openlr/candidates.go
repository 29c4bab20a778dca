package openlr

import (
	"math"
	"sort"
)

// candidate pairs a Line with its rating against one LRP.
type candidate struct {
	line   Line
	rating int
}

const linesDirectlyFactor = 0.95

// findCandidateLines implements §4.6: query close-by nodes and their
// connected lines, optionally augment with projection-found lines,
// group by line identity keeping the best rating, filter below
// minAccRating, and sort descending.
func findCandidateLines(db MapDatabase, rc ratingCalculator, lrp LRP, frcVariance int, minAccRating int, findLinesDirectly bool, beardir BearDir) ([]candidate, error) {
	frcMax := lrp.FRC + frcVariance

	nodes, err := db.FindClosebyNodes(lrp.Coords, rc.maxNodeDist)
	if err != nil {
		return nil, err
	}

	var found []candidate
	for _, n := range nodes {
		lines, err := db.ConnectedLines(n, frcMax, beardir)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			found = append(found, candidate{line: l, rating: rc.rating(lrp, l, n.Distance)})
		}
	}

	if findLinesDirectly {
		direct, err := db.FindClosebyLines(lrp.Coords, rc.maxNodeDist, frcMax, beardir)
		if err != nil {
			return nil, err
		}
		alreadyFound := len(nodes) > 0
		for _, ld := range direct {
			r := rc.rating(lrp, ld.Line, ld.Distance)
			if r < 0 {
				found = append(found, candidate{line: ld.Line, rating: r})
				continue
			}
			if alreadyFound {
				r = int(math.Round(linesDirectlyFactor * float64(r)))
			}
			found = append(found, candidate{line: ld.Line, rating: r})
		}
	}

	found = groupByLineKeepBest(found)

	out := found[:0]
	for _, c := range found {
		if c.rating >= minAccRating {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rating != out[j].rating {
			return out[i].rating > out[j].rating
		}
		if out[i].line.ID.UUID != out[j].line.ID.UUID {
			return out[i].line.ID.UUID < out[j].line.ID.UUID
		}
		return !out[i].line.ID.Reversed && out[j].line.ID.Reversed
	})

	if len(out) == 0 {
		return nil, &ErrNoCandidateLines{}
	}
	return out, nil
}

// groupByLineKeepBest collapses candidates sharing a LineID, keeping the
// highest rating seen for each (§4.6).
func groupByLineKeepBest(in []candidate) []candidate {
	best := make(map[LineID]candidate, len(in))
	order := make([]LineID, 0, len(in))
	for _, c := range in {
		if prev, ok := best[c.line.ID]; !ok {
			best[c.line.ID] = c
			order = append(order, c.line.ID)
		} else if c.rating > prev.rating {
			best[c.line.ID] = c
		}
	}
	out := make([]candidate, 0, len(order))
	for _, id := range order {
		out = append(out, best[id])
	}
	return out
}
