package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
)

const sampleModelXML = `<model inter_gene_max_space="2" min_mandatory_genes_required="1" min_genes_required="2" vers="2.0">
  <gene name="geneA" presence="mandatory"/>
  <gene name="geneB" presence="accessory"/>
</model>`

// writeModelPackage lays out a minimal model package on disk: metadata.yml,
// one definitions/*.xml file, and an empty profile per declared gene, the
// directory shape catalog.Load expects.
func writeModelPackage(t *testing.T, root, family, modelName, modelXML string, genes ...string) {
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
	if err := os.WriteFile(filepath.Join(root, family, "definitions", modelName+".xml"), []byte(modelXML), 0644); err != nil {
		t.Fatal(err)
	}
	for _, g := range genes {
		if err := os.WriteFile(filepath.Join(root, family, "profiles", g+".hmm"), []byte("HMMER3/f\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestLoadParsesOneModel(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "catalog")
	defer cleanup()
	writeModelPackage(t, dir, "TXSS", "T2SS", sampleModelXML, "geneA", "geneB")

	cat, err := Load(filepath.Join(dir, "TXSS"))
	if err != nil {
		t.Fatal(err)
	}
	models, err := cat.ModelsToDetect(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 || models[0].FQN != "TXSS/T2SS" {
		t.Fatalf("models = %+v, want one model TXSS/T2SS", models)
	}
	if models[0].MinMandatoryGenesRequired != 1 || models[0].MinGenesRequired != 2 {
		t.Errorf("model thresholds = %+v, want 1/2", models[0])
	}
}

func TestLoadFailsOnUnreachableProfile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "catalog")
	defer cleanup()
	writeModelPackage(t, dir, "TXSS", "T2SS", sampleModelXML, "geneA") // geneB's profile is missing

	if _, err := Load(filepath.Join(dir, "TXSS")); err == nil || !strings.Contains(err.Error(), "unreachable profile") {
		t.Errorf("Load() = %v, want an unreachable-profile error", err)
	}
}

func TestModelsToDetectMatchesWildcardSelector(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "catalog")
	defer cleanup()
	writeModelPackage(t, dir, "TXSS", "T2SS", sampleModelXML, "geneA", "geneB")

	cat, err := Load(filepath.Join(dir, "TXSS"))
	if err != nil {
		t.Fatal(err)
	}
	models, err := cat.ModelsToDetect([]string{"TXSS/*"})
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 {
		t.Fatalf("got %d models, want 1", len(models))
	}
	if _, err := cat.ModelsToDetect([]string{"TXSS/nonexistent"}); err == nil {
		t.Error("ModelsToDetect(unknown FQN) = nil error, want error")
	}
}
