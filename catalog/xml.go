package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// The following types mirror the authoritative model XML grammar:
//
//   <model inter_gene_max_space="I" min_mandatory_genes_required="M"
//          min_genes_required="N" vers="2.0">
//     <gene name="..." presence="mandatory|accessory|neutral|forbidden"
//           loner="true|false" multi_model="true|false"
//           multi_system="true|false" inter_gene_max_space="I'">
//       <exchangeables>
//         <gene name="..."/>
//       </exchangeables>
//     </gene>
//   </model>

type xmlModel struct {
	XMLName                   xml.Name  `xml:"model"`
	Vers                      string    `xml:"vers,attr"`
	InterGeneMaxSpace         int       `xml:"inter_gene_max_space,attr"`
	MinMandatoryGenesRequired int       `xml:"min_mandatory_genes_required,attr"`
	MinGenesRequired          int       `xml:"min_genes_required,attr"`
	MaxNbGenes                int       `xml:"max_nb_genes,attr"`
	MultiLoci                 bool      `xml:"multi_loci,attr"`
	Genes                     []xmlGene `xml:"gene"`
}

type xmlGene struct {
	Name              string           `xml:"name,attr"`
	Presence          string           `xml:"presence,attr"`
	Loner             bool             `xml:"loner,attr"`
	MultiModel        bool             `xml:"multi_model,attr"`
	MultiSystem       bool             `xml:"multi_system,attr"`
	InterGeneMaxSpace *int             `xml:"inter_gene_max_space,attr"`
	Exchangeables     *xmlExchangeables `xml:"exchangeables"`
}

type xmlExchangeables struct {
	Genes []xmlGeneRef `xml:"gene"`
}

type xmlGeneRef struct {
	Name string `xml:"name,attr"`
}

// parseModelFile reads one definitions/*.xml file, interning its genes (and
// any exchangeables) into bank, scoped to the given family. The returned
// Model has not yet been validated (see Model.validateQuorum,
// Model.detectExchangeableCycle); the caller runs those checks once every
// model file of the package has been parsed.
func parseModelFile(path, family, fqn string, bank *GeneBank) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer f.Close()
	return parseModel(f, path, family, fqn, bank)
}

func parseModel(r io.Reader, path, family, fqn string, bank *GeneBank) (*Model, error) {
	var xm xmlModel
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&xm); err != nil {
		return nil, errors.Wrap(err, path)
	}

	m := &Model{
		FQN:                       fqn,
		InterGeneMaxSpace:         xm.InterGeneMaxSpace,
		MinMandatoryGenesRequired: xm.MinMandatoryGenesRequired,
		MinGenesRequired:          xm.MinGenesRequired,
		MaxNbGenes:                xm.MaxNbGenes,
		MultiLoci:                 xm.MultiLoci,
	}

	// Pass 1: intern every directly-declared gene so exchangeable
	// back-references (which may point forward in the file) resolve.
	direct := make(map[string]*ModelGene, len(xm.Genes))
	for _, xg := range xm.Genes {
		role, err := parseRole(xg.Presence)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%s: gene %s", path, xg.Name))
		}
		profile := filepath.Join(filepath.Dir(filepath.Dir(path)), "profiles", xg.Name+".hmm")
		cg, err := bank.Intern(family, xg.Name, profile)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		mg := &ModelGene{
			Gene:              cg,
			Role:              role,
			Loner:             xg.Loner,
			MultiModel:        xg.MultiModel,
			MultiSystem:       xg.MultiSystem,
			interGeneMaxSpace: inheritedSpace,
		}
		if xg.InterGeneMaxSpace != nil {
			mg.interGeneMaxSpace = *xg.InterGeneMaxSpace
		}
		direct[xg.Name] = mg
		m.Genes = append(m.Genes, mg)
	}

	// Pass 2: resolve exchangeables by name within this family. A name that
	// no model file declares is interned here as a standalone gene (bank is
	// shared across the whole Load call); its profile is checked later by
	// checkProfiles.
	for i, xg := range xm.Genes {
		if xg.Exchangeables == nil {
			continue
		}
		mg := m.Genes[i]
		for _, ref := range xg.Exchangeables.Genes {
			excg, err := bank.Intern(family, ref.Name, "")
			if err != nil {
				return nil, errors.Wrap(err, path)
			}
			exmg, ok := direct[ref.Name]
			if !ok {
				// Exchangeable references a gene not declared in this
				// model; treat it as a standalone ModelGene carrying the
				// parent's role so quorum counting still makes sense.
				exmg = &ModelGene{Gene: excg, Role: mg.Role, interGeneMaxSpace: inheritedSpace}
			}
			mg.Exchangeables = append(mg.Exchangeables, exmg)
		}
	}

	m.buildIndex()
	return m, nil
}
