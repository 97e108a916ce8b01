package candidate

import (
	"fmt"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
)

// SystemKey totally orders CandidateSystems by (replicon, model FQN,
// minimum hit position, ordinal), the key used to generate deterministic,
// reproducible system_id values. The three-way Compare/LT idiom is adapted
// from biopb.Coord's RefID/Pos/Seq ordering.
type SystemKey struct {
	Replicon    string
	ModelFQN    string
	MinPosition int
	Ordinal     int
}

// Compare returns <0, 0, >0 if k<k2, k==k2, k>k2 respectively.
func (k SystemKey) Compare(k2 SystemKey) int {
	if k.Replicon != k2.Replicon {
		if k.Replicon < k2.Replicon {
			return -1
		}
		return 1
	}
	if k.ModelFQN != k2.ModelFQN {
		if k.ModelFQN < k2.ModelFQN {
			return -1
		}
		return 1
	}
	if k.MinPosition != k2.MinPosition {
		return k.MinPosition - k2.MinPosition
	}
	return k.Ordinal - k2.Ordinal
}

// LT returns true iff k < k2.
func (k SystemKey) LT(k2 SystemKey) bool { return k.Compare(k2) < 0 }

// String renders the deterministic system_id.
func (k SystemKey) String() string {
	return fmt.Sprintf("%s_%s_%d_%d", k.Replicon, k.ModelFQN, k.MinPosition, k.Ordinal)
}

// System is a proposed occurrence of a Model: a set of Clusters (the
// "loci"), plus any loner/multi-model ModelHits contributed from outside
// those clusters.
type System struct {
	Key   SystemKey
	Model *catalog.Model

	Clusters []*cluster.Cluster  // the loci used; len>=1 if MultiLoci, else exactly 1
	Outside  []cluster.ModelHit // loner/multi-model hits from outside Clusters

	// Score is populated by package score; zero until then.
	Score float64
}

// SystemID returns the deterministic identifier for this candidate.
func (s *System) SystemID() string { return s.Key.String() }

// AllHits returns every ModelHit this system is built from, in-cluster hits
// first (grouped by locus, in locus order), then outside contributions.
func (s *System) AllHits() []cluster.ModelHit {
	var out []cluster.ModelHit
	for _, c := range s.Clusters {
		out = append(out, c.Hits...)
	}
	out = append(out, s.Outside...)
	return out
}

// Loci returns the number of non-degenerate loci this system spans.
// Loner clusters never count.
func (s *System) Loci() int {
	n := 0
	for _, c := range s.Clusters {
		if !c.IsLoner() {
			n++
		}
	}
	return n
}

// distinctModelGenes returns the set of ModelGenes satisfied by at least one
// hit in s, used by Wholeness and Occ.
func (s *System) distinctModelGenes() map[*catalog.ModelGene]int {
	counts := make(map[*catalog.ModelGene]int)
	for _, h := range s.AllHits() {
		counts[h.ModelGene]++
	}
	return counts
}

// Wholeness is |distinct ModelGenes satisfied| / |mandatory U accessory|.
// It is always in [0, 1]: a system cannot satisfy more distinct genes than
// the model declares as mandatory/accessory, since forbidden/neutral
// contributions don't count toward the denominator's numerator set either.
func (s *System) Wholeness() float64 {
	reqSet := len(s.Model.GenesWithRole(catalog.Mandatory)) + len(s.Model.GenesWithRole(catalog.Accessory))
	if reqSet == 0 {
		return 0
	}
	satisfied := 0
	for mg := range s.distinctModelGenes() {
		if mg.Role == catalog.Mandatory || mg.Role == catalog.Accessory {
			satisfied++
		}
	}
	w := float64(satisfied) / float64(reqSet)
	if w > 1 {
		w = 1
	}
	return w
}

// Occ is floor(mean count of each required component).
func (s *System) Occ() int {
	required := append(s.Model.GenesWithRole(catalog.Mandatory), s.Model.GenesWithRole(catalog.Accessory)...)
	if len(required) == 0 {
		return 0
	}
	counts := s.distinctModelGenes()
	total := 0
	for _, mg := range required {
		total += counts[mg]
	}
	return total / len(required)
}
