package hitstream

import (
	"fmt"
	"sort"

	"github.com/gem-pasteur/macsylib/catalog"
)

// Thresholds holds the selection cutoffs used by Hit.Selected.
type Thresholds struct {
	IEvalueSel      float64
	CoverageProfile float64
}

// Stream is the normalised, filtered set of selected Hits, indexed by
// replicon and by gene.
type Stream struct {
	replicons []string
	byGene    map[string]map[catalog.CoreGeneID][]Hit // replicon -> gene -> hits, ascending position
	byPos     map[string]map[int]Hit                  // replicon -> position -> hit
}

// Build filters raw hits by thresholds and indexes the survivors. The
// result is deterministic regardless of the input order: for any
// (replicon, gene) the selected Hits in the result are unique and sorted by
// ascending position.
func Build(raw []Hit, th Thresholds) (*Stream, error) {
	s := &Stream{
		byGene: make(map[string]map[catalog.CoreGeneID][]Hit),
		byPos:  make(map[string]map[int]Hit),
	}
	repliconSeen := make(map[string]bool)

	for _, h := range raw {
		if !h.Selected(th.IEvalueSel, th.CoverageProfile) {
			continue
		}
		if !repliconSeen[h.Replicon] {
			repliconSeen[h.Replicon] = true
			s.replicons = append(s.replicons, h.Replicon)
			s.byGene[h.Replicon] = make(map[catalog.CoreGeneID][]Hit)
			s.byPos[h.Replicon] = make(map[int]Hit)
		}
		if existing, dup := s.byPos[h.Replicon][h.Position]; dup {
			return nil, fmt.Errorf("hitstream: position %d on replicon %s already holds hit for gene %s, got %s",
				h.Position, h.Replicon, existing.Gene.Name, h.Gene.Name)
		}
		s.byPos[h.Replicon][h.Position] = h
		gm := s.byGene[h.Replicon]
		gm[h.Gene.ID] = append(gm[h.Gene.ID], h)
	}

	sort.Strings(s.replicons)
	for _, byGene := range s.byGene {
		for id, hits := range byGene {
			sort.Slice(hits, func(i, j int) bool { return hits[i].Position < hits[j].Position })
			byGene[id] = hits
		}
	}
	return s, nil
}

// Replicons returns every replicon name with at least one selected hit, in
// ascending lexicographic order, a deterministic iteration order for
// per-replicon parallel processing.
func (s *Stream) Replicons() []string { return s.replicons }

// HitsForGene returns the selected Hits of gene on replicon, ascending by
// position. The returned slice must not be mutated by the caller.
func (s *Stream) HitsForGene(replicon string, gene catalog.CoreGeneID) []Hit {
	return s.byGene[replicon][gene]
}

// AllHits returns every selected hit on replicon across all genes, ascending
// by position.
func (s *Stream) AllHits(replicon string) []Hit {
	byPos := s.byPos[replicon]
	out := make([]Hit, 0, len(byPos))
	for _, h := range byPos {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
