package pkgcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
)

func writePackage(t *testing.T, root, family, modelXML string, genes ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(root, family, "definitions"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, family, "profiles"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, family, "metadata.yml"), []byte("pkg_name: "+family+"\nvers: 1.0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, family, "definitions", "model.xml"), []byte(modelXML), 0644); err != nil {
		t.Fatal(err)
	}
	for _, g := range genes {
		if err := os.WriteFile(filepath.Join(root, family, "profiles", g+".hmm"), []byte("HMMER3/f\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDefaultCheckReportsLoadFailureAsError(t *testing.T) {
	warnings, errs := Default{}.Check("/nonexistent/model/package")
	if len(warnings) != 0 {
		t.Errorf("got %d warnings, want 0", len(warnings))
	}
	if len(errs) != 1 || errs[0].Code != "LOAD_FAILED" {
		t.Fatalf("errs = %+v, want one LOAD_FAILED diagnostic", errs)
	}
}

func TestDefaultCheckWarnsOnNoMandatoryGenes(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "pkgcheck")
	defer cleanup()
	modelXML := `<model inter_gene_max_space="2" min_genes_required="1" vers="2.0">
  <gene name="geneA" presence="accessory"/>
</model>`
	writePackage(t, dir, "TXSS", modelXML, "geneA")

	warnings, errs := Default{}.Check(filepath.Join(dir, "TXSS"))
	if len(errs) != 0 {
		t.Fatalf("errs = %+v, want none", errs)
	}
	found := false
	for _, w := range warnings {
		if w.Code == "NO_MANDATORY_GENES" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %+v, want a NO_MANDATORY_GENES diagnostic", warnings)
	}
}

func TestDefaultCheckWarnsOnLonerForbiddenGene(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "pkgcheck")
	defer cleanup()
	modelXML := `<model inter_gene_max_space="2" min_mandatory_genes_required="1" min_genes_required="1" vers="2.0">
  <gene name="geneA" presence="mandatory"/>
  <gene name="geneF" presence="forbidden" loner="true"/>
</model>`
	writePackage(t, dir, "TXSS", modelXML, "geneA", "geneF")

	warnings, _ := Default{}.Check(filepath.Join(dir, "TXSS"))
	found := false
	for _, w := range warnings {
		if w.Code == "LONER_FORBIDDEN" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %+v, want a LONER_FORBIDDEN diagnostic", warnings)
	}
}
