package catalog

import "fmt"

// Role is a ModelGene's status within a Model.
type Role int

const (
	Mandatory Role = iota
	Accessory
	Neutral
	Forbidden
)

func (r Role) String() string {
	switch r {
	case Mandatory:
		return "mandatory"
	case Accessory:
		return "accessory"
	case Neutral:
		return "neutral"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

func parseRole(s string) (Role, error) {
	switch s {
	case "mandatory":
		return Mandatory, nil
	case "accessory":
		return Accessory, nil
	case "neutral":
		return Neutral, nil
	case "forbidden":
		return Forbidden, nil
	default:
		return Neutral, fmt.Errorf("catalog: unknown gene presence %q", s)
	}
}

// inheritedSpace is the sentinel meaning "use the Model's default
// inter_gene_max_space" for a ModelGene that doesn't override it.
const inheritedSpace = -1

// ModelGene is a CoreGene used in one specific Model, with the presence
// role and spacing attributes the model definition gives it.
type ModelGene struct {
	Gene     *CoreGene
	Role     Role
	Loner    bool
	MultiModel bool
	MultiSystem bool

	// interGeneMaxSpace is inheritedSpace unless this gene overrides the
	// Model's default.
	interGeneMaxSpace int

	// Exchangeables is the list of ModelGenes that can fulfil this gene's
	// role in the owning Model.
	Exchangeables []*ModelGene
}

// InterGeneMaxSpace returns this gene's effective inter_gene_max_space,
// falling back to the Model default when the gene doesn't override it.
func (mg *ModelGene) InterGeneMaxSpace(modelDefault int) int {
	if mg.interGeneMaxSpace == inheritedSpace {
		return modelDefault
	}
	return mg.interGeneMaxSpace
}

// Model is a named tuple of ModelGenes plus the quorum and spacing
// thresholds a model definition sets.
type Model struct {
	FQN string // family/path/name

	Genes []*ModelGene // all ModelGenes, in declaration order

	InterGeneMaxSpace         int
	MinMandatoryGenesRequired int
	MinGenesRequired          int
	MaxNbGenes                int // 0 means unbounded
	MultiLoci                 bool

	// geneByCoreID maps a CoreGeneID (of the gene itself or any of its
	// exchangeables) to the owning ModelGene, for O(1) Hit -> ModelGene
	// resolution in package hitstream / cluster.
	geneByCoreID map[CoreGeneID]*ModelGene
}

// ApplyOverrides implements the models_opt option group:
// per-model threshold overrides keyed by fully-qualified model name, applied
// after catalog.Load without editing the model's XML definition. The maps
// come from config.Opts' per-model fields; no config-file key or
// command-line flag fills those fields, so only a caller that sets them
// directly gets overrides.
func (m *Model) ApplyOverrides(interGeneMaxSpace, minGenesRequired map[string]int) {
	if v, ok := interGeneMaxSpace[m.FQN]; ok {
		m.InterGeneMaxSpace = v
	}
	if v, ok := minGenesRequired[m.FQN]; ok {
		m.MinGenesRequired = v
	}
}

// ModelGeneFor returns the ModelGene that a hit of the given CoreGene
// satisfies in this Model, or nil if the gene (directly or via an
// exchangeable) isn't part of this Model.
func (m *Model) ModelGeneFor(id CoreGeneID) *ModelGene {
	return m.geneByCoreID[id]
}

// IsExchangeable reports whether hitGene fulfils mg's role via an
// exchangeable relationship rather than directly.
func (mg *ModelGene) IsExchangeable(hitGene CoreGeneID) bool {
	if mg.Gene.ID == hitGene {
		return false
	}
	for _, ex := range mg.Exchangeables {
		if ex.Gene.ID == hitGene {
			return true
		}
	}
	return false
}

// GenesWithRole returns the ModelGenes of m with the given role, in
// declaration order.
func (m *Model) GenesWithRole(r Role) []*ModelGene {
	var out []*ModelGene
	for _, mg := range m.Genes {
		if mg.Role == r {
			out = append(out, mg)
		}
	}
	return out
}

// validateQuorum checks the quorum invariant:
// min_mandatory_genes_required <= min_genes_required <= |mandatory U accessory|.
func (m *Model) validateQuorum() error {
	reqSet := len(m.GenesWithRole(Mandatory)) + len(m.GenesWithRole(Accessory))
	if m.MinMandatoryGenesRequired > m.MinGenesRequired {
		return fmt.Errorf("model %s: min_mandatory_genes_required(%d) > min_genes_required(%d)",
			m.FQN, m.MinMandatoryGenesRequired, m.MinGenesRequired)
	}
	if m.MinGenesRequired > reqSet {
		return fmt.Errorf("model %s: min_genes_required(%d) > |mandatory U accessory|(%d)",
			m.FQN, m.MinGenesRequired, reqSet)
	}
	return nil
}

// buildIndex populates geneByCoreID from Genes and their Exchangeables.
// Called once after a Model's gene list is fully populated.
func (m *Model) buildIndex() {
	m.geneByCoreID = make(map[CoreGeneID]*ModelGene, len(m.Genes))
	for _, mg := range m.Genes {
		m.geneByCoreID[mg.Gene.ID] = mg
		for _, ex := range mg.Exchangeables {
			m.geneByCoreID[ex.Gene.ID] = mg
		}
	}
}

// detectExchangeableCycle walks the exchangeable graph of every ModelGene in
// m looking for a cycle. Exchangeables are declared as plain gene-name
// references wrapped in <exchangeables>; a model author can
// accidentally make A exchangeable-for-B and B exchangeable-for-A via a
// third gene, which would make quorum counting ill-defined.
func (m *Model) detectExchangeableCycle() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*ModelGene]int, len(m.Genes))
	var visit func(mg *ModelGene) error
	visit = func(mg *ModelGene) error {
		switch color[mg] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("model %s: cyclic exchangeables involving gene %s", m.FQN, mg.Gene.Name)
		}
		color[mg] = gray
		for _, ex := range mg.Exchangeables {
			if err := visit(ex); err != nil {
				return err
			}
		}
		color[mg] = black
		return nil
	}
	for _, mg := range m.Genes {
		if err := visit(mg); err != nil {
			return err
		}
	}
	return nil
}
