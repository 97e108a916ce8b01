package resolve

import (
	"context"

	"github.com/gem-pasteur/macsylib/candidate"
)

// Status is the terminal state of solving one replicon's graph.
type Status int

const (
	Optimal Status = iota
	Timeout
	Empty
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Timeout:
		return "TIMEOUT"
	case Empty:
		return "EMPTY"
	default:
		return "UNKNOWN"
	}
}

// Solution is one maximum-weight independent set: a set of mutually
// compatible CandidateSystems.
type Solution struct {
	Systems []*candidate.System
}

func (s Solution) score() float64 {
	total := 0.0
	for _, sys := range s.Systems {
		total += sys.Score
	}
	return total
}

func (s Solution) hitCount() int {
	n := 0
	for _, sys := range s.Systems {
		n += len(sys.AllHits())
	}
	return n
}

func (s Solution) meanWholeness() float64 {
	if len(s.Systems) == 0 {
		return 0
	}
	total := 0.0
	for _, sys := range s.Systems {
		total += sys.Wholeness()
	}
	return total / float64(len(s.Systems))
}

// Result is the outcome of solving one replicon's compatibility graph.
type Result struct {
	Status  Status
	Best    Solution   // rank-1 solution
	AllBest []Solution // every solution tied at the maximum score
}

// span is the [lo, hi] position interval a System's hits cover, used as a
// cheap incompatibility pre-filter: two candidates whose spans don't even overlap can never share a
// ModelHit, so the exact adjacency check can be skipped.
func span(s *candidate.System) (lo, hi int) {
	hits := s.AllHits()
	lo, hi = hits[0].Position(), hits[0].Position()
	for _, h := range hits[1:] {
		if h.Position() < lo {
			lo = h.Position()
		}
		if h.Position() > hi {
			hi = h.Position()
		}
	}
	return
}

func spansOverlap(aLo, aHi, bLo, bHi int) bool { return aLo <= bHi && bLo <= aHi }

// Solve runs the branch-and-bound maximum-weight independent set search
// over g, honouring ctx's deadline by polling it once per node.
func Solve(ctx context.Context, g *Graph) Result {
	if len(g.Systems) == 0 {
		return Result{Status: Empty}
	}

	spans := make([][2]int, len(g.Systems))
	for i, s := range g.Systems {
		lo, hi := span(s)
		spans[i] = [2]int{lo, hi}
	}
	quickCompatible := func(i, j int) bool {
		if !spansOverlap(spans[i][0], spans[i][1], spans[j][0], spans[j][1]) {
			return true
		}
		return g.compatible(i, j)
	}

	suffixUpperBound := make([]float64, len(g.Systems)+1)
	for i := len(g.Systems) - 1; i >= 0; i-- {
		suffixUpperBound[i] = suffixUpperBound[i+1] + g.Systems[i].Score
	}

	n := len(g.Systems)
	timedOut := false
	var bestScore float64
	var bestSets [][]int

	var current []int
	var currentScore float64

	var branch func(idx int) bool // returns false to stop (timeout)
	branch = func(idx int) bool {
		select {
		case <-ctx.Done():
			timedOut = true
			return false
		default:
		}

		if idx == n {
			if currentScore > bestScore {
				bestScore = currentScore
				bestSets = [][]int{append([]int(nil), current...)}
			} else if currentScore == bestScore && currentScore > 0 {
				bestSets = append(bestSets, append([]int(nil), current...))
			}
			return true
		}

		if currentScore+suffixUpperBound[idx] < bestScore {
			return true // prune: even taking everything left can't beat best
		}

		// Branch 1: include g.Systems[idx] if compatible with current set.
		compatible := true
		for _, c := range current {
			if !quickCompatible(c, idx) {
				compatible = false
				break
			}
		}
		if compatible {
			current = append(current, idx)
			currentScore += g.Systems[idx].Score
			if !branch(idx + 1) {
				return false
			}
			current = current[:len(current)-1]
			currentScore -= g.Systems[idx].Score
		}

		// Branch 2: exclude it.
		return branch(idx + 1)
	}

	branch(0)

	status := Optimal
	if timedOut {
		status = Timeout
	}
	if len(bestSets) == 0 {
		return Result{Status: status}
	}

	solutions := make([]Solution, len(bestSets))
	for i, set := range bestSets {
		sys := make([]*candidate.System, len(set))
		for j, idx := range set {
			sys[j] = g.Systems[idx]
		}
		solutions[i] = Solution{Systems: sys}
	}
	rank(solutions)

	return Result{Status: status, Best: solutions[0], AllBest: solutions}
}
