package catalog

import (
	"fmt"

	"github.com/biogo/store/llrb"
)

// CoreGeneID is a dense sequence number (1, 2, 3, ...) assigned to a
// CoreGene the first time it is interned. It is valid only within one
// process invocation, mirroring fusion.GeneID's interning scheme.
type CoreGeneID int32

const invalidCoreGeneID = CoreGeneID(0)

// CoreGene is unique by (family, name); it owns a reference to an HMM
// profile path. Exactly one instance exists per (family, name) throughout a
// run.
type CoreGene struct {
	ID         CoreGeneID
	Family     string
	Name       string
	ProfilePath string
}

// geneKey orders CoreGenes by (family, name) for the interning tree, the
// same llrb.Comparable idiom encoding/bampair/shard_info.go uses to order
// shards by (refID, start).
type geneKey struct {
	family, name string
	gene         *CoreGene
}

func (k geneKey) Compare(c llrb.Comparable) int {
	k2 := c.(geneKey)
	if k.family != k2.family {
		if k.family < k2.family {
			return -1
		}
		return 1
	}
	if k.name != k2.name {
		if k.name < k2.name {
			return -1
		}
		return 1
	}
	return 0
}

// GeneBank interns CoreGenes by (family, name). It is built once, single
// threaded, before any concurrent pipeline stage starts; after that it is
// read-only and requires no synchronisation.
type GeneBank struct {
	byKey llrb.Tree
	genes []*CoreGene // indexed by CoreGeneID; genes[0] is unused (invalidCoreGeneID)
}

// NewGeneBank returns an empty GeneBank.
func NewGeneBank() *GeneBank {
	return &GeneBank{genes: []*CoreGene{nil}}
}

// Intern returns the CoreGene for (family, name), creating it with the given
// profile path if this is the first reference. A second call for the same
// (family, name) with a different profilePath is an error: the model
// package declared the same gene twice with inconsistent profiles.
func (b *GeneBank) Intern(family, name, profilePath string) (*CoreGene, error) {
	k := geneKey{family: family, name: name}
	if found := b.byKey.Get(k); found != nil {
		g := found.(geneKey).gene
		if profilePath != "" && g.ProfilePath != "" && g.ProfilePath != profilePath {
			return nil, fmt.Errorf("catalog: gene %s/%s already interned with profile %q, got %q",
				family, name, g.ProfilePath, profilePath)
		}
		if g.ProfilePath == "" {
			g.ProfilePath = profilePath
		}
		return g, nil
	}
	g := &CoreGene{
		ID:          CoreGeneID(len(b.genes)),
		Family:      family,
		Name:        name,
		ProfilePath: profilePath,
	}
	b.genes = append(b.genes, g)
	k.gene = g
	b.byKey.Insert(k)
	return g, nil
}

// Lookup returns the CoreGene for (family, name), or nil if it was never
// interned.
func (b *GeneBank) Lookup(family, name string) *CoreGene {
	found := b.byKey.Get(geneKey{family: family, name: name})
	if found == nil {
		return nil
	}
	return found.(geneKey).gene
}

// ByID returns the CoreGene for a given dense ID.
//
// REQUIRES: id is valid (returned by a previous Intern call in this
// process).
func (b *GeneBank) ByID(id CoreGeneID) *CoreGene {
	if id == invalidCoreGeneID || int(id) >= len(b.genes) {
		panic(fmt.Sprintf("catalog: invalid CoreGeneID %d", id))
	}
	return b.genes[id]
}

// Len returns the number of distinct CoreGenes interned so far.
func (b *GeneBank) Len() int { return len(b.genes) - 1 }
