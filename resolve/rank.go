package resolve

import "sort"

// rank orders tied best-score solutions by: desc hit count, desc system
// count, desc mean wholeness, then ascending lexicographic hit positions.
// solutions[0] becomes the reported best_solution.
type rankedSolution struct {
	solution Solution
	positions []int
}

func rank(solutions []Solution) {
	ranked := make([]rankedSolution, len(solutions))
	for i, s := range solutions {
		var pos []int
		for _, sys := range s.Systems {
			for _, h := range sys.AllHits() {
				pos = append(pos, h.Position())
			}
		}
		sort.Ints(pos)
		ranked[i] = rankedSolution{solution: s, positions: pos}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].solution, ranked[j].solution
		if hi, hj := a.hitCount(), b.hitCount(); hi != hj {
			return hi > hj
		}
		if ni, nj := len(a.Systems), len(b.Systems); ni != nj {
			return ni > nj
		}
		if wi, wj := a.meanWholeness(), b.meanWholeness(); wi != wj {
			return wi > wj
		}
		return lexLess(ranked[i].positions, ranked[j].positions)
	})

	for i, r := range ranked {
		solutions[i] = r.solution
	}
}

func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
