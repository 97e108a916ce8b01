package candidate

import (
	"testing"

	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
	"github.com/gem-pasteur/macsylib/hitstream"
)

func gene(id catalog.CoreGeneID, name string) *catalog.CoreGene {
	return &catalog.CoreGene{ID: id, Family: "TXSS", Name: name}
}

func mh(mg *catalog.ModelGene, pos int, proteinID string) cluster.ModelHit {
	return cluster.ModelHit{
		Hit:       hitstream.Hit{Replicon: "rep1", Position: pos, ProteinID: proteinID, Gene: mg.Gene},
		ModelGene: mg,
		Status:    mg.Role,
		Loner:     mg.Loner,
	}
}

func TestBuildNoClusterIsRejected(t *testing.T) {
	m := &catalog.Model{FQN: "TXSS/T2SS"}
	accepted, rejected, _ := Build("rep1", m, cluster.Result{})
	if len(accepted) != 0 {
		t.Fatalf("got %d accepted, want 0", len(accepted))
	}
	if len(rejected) != 1 || rejected[0].Reasons[0].Code != NoCluster {
		t.Fatalf("rejected = %+v, want one NO_CLUSTER reason", rejected)
	}
}

func TestBuildAcceptsClusterMeetingQuorum(t *testing.T) {
	g1 := gene(1, "geneA")
	g2 := gene(2, "geneB")
	mg1 := &catalog.ModelGene{Gene: g1, Role: catalog.Mandatory}
	mg2 := &catalog.ModelGene{Gene: g2, Role: catalog.Mandatory}
	m := &catalog.Model{FQN: "TXSS/T2SS", Genes: []*catalog.ModelGene{mg1, mg2}, MinMandatoryGenesRequired: 2, MinGenesRequired: 2}

	c := &cluster.Cluster{Hits: []cluster.ModelHit{mh(mg1, 1, "p1"), mh(mg2, 2, "p2")}, LocusNum: 1}
	res := cluster.Result{Clusters: []*cluster.Cluster{c}}

	accepted, rejected, _ := Build("rep1", m, res)
	if len(rejected) != 0 {
		t.Fatalf("got %d rejected, want 0: %+v", len(rejected), rejected)
	}
	if len(accepted) != 1 {
		t.Fatalf("got %d accepted, want 1", len(accepted))
	}
	if accepted[0].SystemID() == "" {
		t.Error("SystemID() is empty")
	}
}

func TestBuildRejectsMandatoryQuorumNotReached(t *testing.T) {
	g1 := gene(1, "geneA")
	g2 := gene(2, "geneB")
	mg1 := &catalog.ModelGene{Gene: g1, Role: catalog.Mandatory}
	mg2 := &catalog.ModelGene{Gene: g2, Role: catalog.Mandatory}
	m := &catalog.Model{FQN: "TXSS/T2SS", Genes: []*catalog.ModelGene{mg1, mg2}, MinMandatoryGenesRequired: 2, MinGenesRequired: 2}

	// Only one mandatory gene present; a single hit forms no cluster, so
	// stub a 2-hit cluster of the *same* gene to reach the sweep's min
	// cluster size without satisfying the second mandatory gene.
	c := &cluster.Cluster{Hits: []cluster.ModelHit{mh(mg1, 1, "p1"), mh(mg1, 2, "p2")}, LocusNum: 1}
	res := cluster.Result{Clusters: []*cluster.Cluster{c}}

	accepted, rejected, _ := Build("rep1", m, res)
	if len(accepted) != 0 {
		t.Fatalf("got %d accepted, want 0", len(accepted))
	}
	if len(rejected) != 1 || rejected[0].Reasons[0].Code != MandatoryQuorumNotReached {
		t.Fatalf("rejected = %+v, want one MANDATORY_QUORUM_NOT_REACHED reason", rejected)
	}
}

func TestBuildRejectsForbiddenWithinSpan(t *testing.T) {
	g1 := gene(1, "geneA")
	g2 := gene(2, "geneB")
	gf := gene(3, "geneForbidden")
	mg1 := &catalog.ModelGene{Gene: g1, Role: catalog.Mandatory}
	mg2 := &catalog.ModelGene{Gene: g2, Role: catalog.Mandatory}
	mgf := &catalog.ModelGene{Gene: gf, Role: catalog.Forbidden}
	m := &catalog.Model{FQN: "TXSS/T2SS", Genes: []*catalog.ModelGene{mg1, mg2, mgf}, MinMandatoryGenesRequired: 2, MinGenesRequired: 2}

	c := &cluster.Cluster{Hits: []cluster.ModelHit{mh(mg1, 1, "p1"), mh(mg2, 3, "p2")}, LocusNum: 1}
	forbidden := mh(mgf, 2, "pf")
	res := cluster.Result{Clusters: []*cluster.Cluster{c}, Forbidden: []cluster.ModelHit{forbidden}}

	accepted, rejected, _ := Build("rep1", m, res)
	if len(accepted) != 0 {
		t.Fatalf("got %d accepted, want 0 (forbidden hit sits inside the cluster span)", len(accepted))
	}
	if len(rejected) != 1 || rejected[0].Reasons[0].Code != ForbiddenPresent {
		t.Fatalf("rejected = %+v, want one FORBIDDEN_PRESENT reason", rejected)
	}
}

func TestDropSubsumedKeepsOnlySupersets(t *testing.T) {
	g1 := gene(1, "geneA")
	g2 := gene(2, "geneB")
	mg1 := &catalog.ModelGene{Gene: g1, Role: catalog.Mandatory}
	mg2 := &catalog.ModelGene{Gene: g2, Role: catalog.Mandatory}

	small := &System{Clusters: []*cluster.Cluster{{Hits: []cluster.ModelHit{mh(mg1, 1, "p1")}}}}
	big := &System{Clusters: []*cluster.Cluster{{Hits: []cluster.ModelHit{mh(mg1, 1, "p1"), mh(mg2, 2, "p2")}}}}

	kept := dropSubsumed([]*System{small, big})
	if len(kept) != 1 || kept[0] != big {
		t.Fatalf("dropSubsumed kept %d systems, want exactly the superset", len(kept))
	}
}
