// Package resolve builds the per-replicon compatibility graph of
// CandidateSystems and finds the maximum-weight independent set: the set
// of systems that can coexist as one biological solution.
package resolve

import (
	"sort"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
)

// hitKey identifies a ModelHit by its (replicon, protein) identity, the same
// content key package candidate uses for dedup.
func hitKey(mh cluster.ModelHit) string { return mh.Hit.Replicon + "#" + mh.Hit.ProteinID }

// conflicts reports whether u and v cannot appear together in one Solution:
// they share a ModelHit whose gene forbids multi_system use, and it isn't a
// multi_model exception; two candidates of the same model additionally
// conflict over shared mandatory hits. A shared loner hit that is not
// multi_system never causes a conflict.
func conflicts(u, v *candidate.System) bool {
	vHits := make(map[string]cluster.ModelHit, 8)
	for _, h := range v.AllHits() {
		vHits[hitKey(h)] = h
	}
	for _, h := range u.AllHits() {
		share, ok := vHits[hitKey(h)]
		if !ok {
			continue
		}
		if h.Loner && !h.MultiSystem {
			// A shared non-multi_system loner hit never excludes either
			// candidate; candidate.lonerWarnings surfaces it as a warning
			// instead.
			continue
		}
		sameModel := u.Model.FQN == v.Model.FQN
		if sameModel && h.Status == catalog.Mandatory {
			return true
		}
		if !h.MultiSystem && !(h.MultiModel && share.MultiModel) {
			return true
		}
	}
	return false
}

// Graph is the compatibility graph for one replicon's candidate systems.
type Graph struct {
	Systems []*candidate.System
	adj     [][]bool
}

// BuildGraph constructs the compatibility graph over systems. Vertex ordering is the deterministic order branch-and-bound
// needs: descending score, then descending hit count, then ascending
// minimum position.
func BuildGraph(systems []*candidate.System) *Graph {
	ordered := append([]*candidate.System(nil), systems...)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.AllHits()) != len(b.AllHits()) {
			return len(a.AllHits()) > len(b.AllHits())
		}
		return minPosition(a) < minPosition(b)
	})

	n := len(ordered)
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if conflicts(ordered[i], ordered[j]) {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}
	return &Graph{Systems: ordered, adj: adj}
}

func minPosition(s *candidate.System) int {
	hits := s.AllHits()
	if len(hits) == 0 {
		return 0
	}
	min := hits[0].Position()
	for _, h := range hits[1:] {
		if h.Position() < min {
			min = h.Position()
		}
	}
	return min
}

func (g *Graph) compatible(i, j int) bool { return !g.adj[i][j] }
