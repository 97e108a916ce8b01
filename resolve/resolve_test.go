package resolve

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
	"github.com/gem-pasteur/macsylib/hitstream"
)

func sysAt(fqn string, score float64, positions ...int) *candidate.System {
	g := &catalog.CoreGene{ID: catalog.CoreGeneID(positions[0]), Family: "TXSS", Name: "geneA"}
	mg := &catalog.ModelGene{Gene: g, Role: catalog.Mandatory}
	hits := make([]cluster.ModelHit, len(positions))
	for i, p := range positions {
		hits[i] = cluster.ModelHit{
			Hit:       hitstream.Hit{Replicon: "rep1", Position: p, ProteinID: protID(fqn, p), Gene: g},
			ModelGene: mg,
			Status:    catalog.Mandatory,
		}
	}
	return &candidate.System{
		Model:    &catalog.Model{FQN: fqn, Genes: []*catalog.ModelGene{mg}},
		Clusters: []*cluster.Cluster{{Hits: hits}},
		Score:    score,
	}
}

func protID(fqn string, p int) string { return fmt.Sprintf("%s_p%d", fqn, p) }

func TestBuildGraphMarksOverlappingSystemsOfDifferentModelsIncompatible(t *testing.T) {
	a := sysAt("TXSS/T2SS", 3, 1, 2)
	b := sysAt("TXSS/T4SS", 2, 2, 3)
	b.Clusters[0].Hits[0].Hit.ProteinID = a.Clusters[0].Hits[0].Hit.ProteinID // force a shared hit between the two systems

	g := BuildGraph([]*candidate.System{a, b})
	if g.compatible(0, 1) {
		t.Error("compatible() = true, want false: the two systems share a mandatory hit")
	}
}

func TestBuildGraphOrdersByDescendingScore(t *testing.T) {
	low := sysAt("TXSS/T2SS", 1, 1)
	high := sysAt("TXSS/T4SS", 5, 10)
	g := BuildGraph([]*candidate.System{low, high})
	if g.Systems[0] != high {
		t.Error("BuildGraph did not order the higher-scoring system first")
	}
}

func TestSolveReturnsEmptyForNoSystems(t *testing.T) {
	g := BuildGraph(nil)
	res := Solve(context.Background(), g)
	if res.Status != Empty {
		t.Errorf("Status = %v, want Empty", res.Status)
	}
}

func TestSolvePicksCompatibleHigherScoringSet(t *testing.T) {
	a := sysAt("TXSS/T2SS", 3, 1, 2)
	b := sysAt("TXSS/T4SS", 2, 100, 101) // disjoint positions and proteins: compatible with a
	g := BuildGraph([]*candidate.System{a, b})
	res := Solve(context.Background(), g)
	if res.Status != Optimal {
		t.Fatalf("Status = %v, want Optimal", res.Status)
	}
	if len(res.Best.Systems) != 2 {
		t.Fatalf("Best has %d systems, want 2 (both are mutually compatible)", len(res.Best.Systems))
	}
}

func TestSolveRespectsContextDeadline(t *testing.T) {
	a := sysAt("TXSS/T2SS", 3, 1, 2)
	g := BuildGraph([]*candidate.System{a})
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	time.Sleep(time.Millisecond)
	res := Solve(ctx, g)
	if res.Status != Timeout {
		t.Errorf("Status = %v, want Timeout", res.Status)
	}
}
