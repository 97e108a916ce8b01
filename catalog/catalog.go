// Package catalog loads MacSyLib model packages (metadata.yml,
// definitions/*.xml, profiles/*.hmm) into an immutable in-memory catalog of
// Models and interned CoreGenes.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Catalog holds every Model parsed from one package directory, plus the
// GeneBank that interns their CoreGenes. Once Load returns, a Catalog is
// immutable: concurrent readers require no synchronisation.
type Catalog struct {
	Family   string
	Metadata Metadata
	Bank     *GeneBank

	models    []*Model
	byFQN     map[string]*Model
}

// Load parses every definitions/*.xml file under packageDir into a Catalog.
// Errors are fatal and reported with the originating file: unknown gene reference, unreachable profile, quorum invariant
// violation, cyclic exchangeables.
func Load(packageDir string) (*Catalog, error) {
	family := filepath.Base(packageDir)
	md, err := loadMetadata(filepath.Join(packageDir, "metadata.yml"))
	if err != nil {
		return nil, err
	}

	defsDir := filepath.Join(packageDir, "definitions")
	var xmlPaths []string
	err = filepath.Walk(defsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".xml") {
			xmlPaths = append(xmlPaths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, defsDir)
	}
	sort.Strings(xmlPaths)

	bank := NewGeneBank()
	c := &Catalog{
		Family:   family,
		Metadata: md,
		Bank:     bank,
		byFQN:    make(map[string]*Model),
	}

	for _, path := range xmlPaths {
		rel, err := filepath.Rel(defsDir, path)
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		rel = strings.TrimSuffix(rel, ".xml")
		fqn := family + "/" + filepath.ToSlash(rel)
		m, err := parseModelFile(path, family, fqn, bank)
		if err != nil {
			return nil, errors.Wrap(err, "parsing model definition")
		}
		if err := c.addModel(m); err != nil {
			return nil, err
		}
	}

	for _, m := range c.models {
		if err := m.validateQuorum(); err != nil {
			return nil, err
		}
		if err := m.detectExchangeableCycle(); err != nil {
			return nil, err
		}
		if err := c.checkProfiles(packageDir, m); err != nil {
			return nil, err
		}
	}

	log.Printf("catalog: loaded %d model(s) from %s", len(c.models), packageDir)
	return c, nil
}

func (c *Catalog) addModel(m *Model) error {
	if _, dup := c.byFQN[m.FQN]; dup {
		return fmt.Errorf("catalog: duplicate model %s", m.FQN)
	}
	c.byFQN[m.FQN] = m
	c.models = append(c.models, m)
	return nil
}

// checkProfiles verifies that every ModelGene (and its exchangeables)
// declared by m has a reachable <gene>.hmm profile under
// <packageDir>/profiles/.
func (c *Catalog) checkProfiles(packageDir string, m *Model) error {
	seen := make(map[CoreGeneID]bool)
	check := func(mg *ModelGene) error {
		if seen[mg.Gene.ID] {
			return nil
		}
		seen[mg.Gene.ID] = true
		path := filepath.Join(packageDir, "profiles", mg.Gene.Name+".hmm")
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("model %s: gene %s: unreachable profile %s", m.FQN, mg.Gene.Name, path)
		}
		return nil
	}
	for _, mg := range m.Genes {
		if err := check(mg); err != nil {
			return err
		}
		for _, ex := range mg.Exchangeables {
			if err := check(ex); err != nil {
				return err
			}
		}
	}
	return nil
}

// ModelsToDetect returns the Models matching selector, in a deterministic
// order (ascending FQN). An empty selector (or "all") returns every Model
// in the catalog. Otherwise selector is matched against each Model's FQN as
// an exact match or a "family/path/*" prefix wildcard.
func (c *Catalog) ModelsToDetect(selector []string) ([]*Model, error) {
	if len(selector) == 0 || (len(selector) == 1 && selector[0] == "all") {
		out := append([]*Model(nil), c.models...)
		sort.Slice(out, func(i, j int) bool { return out[i].FQN < out[j].FQN })
		return out, nil
	}

	var out []*Model
	for _, sel := range selector {
		if strings.HasSuffix(sel, "/*") {
			prefix := strings.TrimSuffix(sel, "*")
			matched := false
			for _, m := range c.models {
				if strings.HasPrefix(m.FQN, prefix) {
					out = append(out, m)
					matched = true
				}
			}
			if !matched {
				return nil, fmt.Errorf("catalog: no model matches selector %q", sel)
			}
			continue
		}
		m, ok := c.byFQN[sel]
		if !ok {
			return nil, fmt.Errorf("catalog: unknown model %q", sel)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FQN < out[j].FQN })
	return out, nil
}

// GeneByName looks up an already-interned gene by (family, name), for use by
// hitstream when mapping an HMM report's profile name back to a CoreGene. It
// returns nil for a name that is not in the bank.
func (c *Catalog) GeneByName(name string) *CoreGene {
	return c.Bank.Lookup(c.Family, name)
}
