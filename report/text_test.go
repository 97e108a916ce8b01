package report

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
)

func TestWriteTextRendersOneBlockPerSystem(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "report")
	defer cleanup()
	path := filepath.Join(dir, "best_solution.txt")

	bySystem := map[string][]Row{
		"sys1": {{SysID: "sys1", ModelFQN: "TXSS/T2SS", Replicon: "rep1", SysLoci: 1, HitID: "p1", GeneName: "geneA", HitPos: 1, HitStatus: "mandatory", LocusNum: 1}},
	}
	ctx := vcontext.Background()
	if err := WriteText(ctx, path, CommentLines("1.0", "cmd", ""), bySystem); err != nil {
		t.Fatal(err)
	}
	body, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	if !strings.Contains(text, "system id: sys1") {
		t.Errorf("body = %q, want a \"system id: sys1\" header line", text)
	}
	if !strings.Contains(text, "model: TXSS/T2SS") {
		t.Errorf("body missing model line: %q", text)
	}
	if !strings.Contains(text, "p1\tgeneA\t1\tmandatory\tlocus=1") {
		t.Errorf("body missing hit line: %q", text)
	}
}

func TestWriteRejectedTextSkipsHitlessPlaceholderRows(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "report")
	defer cleanup()
	path := filepath.Join(dir, "rejected_candidates.txt")

	byCandidate := map[string][]RejectedRow{
		"c1": {{CandidateID: "c1", ModelFQN: "TXSS/T2SS", Reasons: "NO_CLUSTER"}},
	}
	ctx := vcontext.Background()
	if err := WriteRejectedText(ctx, path, nil, byCandidate); err != nil {
		t.Fatal(err)
	}
	body, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	if !strings.Contains(text, "candidate id: c1") || !strings.Contains(text, "reasons: NO_CLUSTER") {
		t.Errorf("body = %q, want candidate id and reasons lines", text)
	}
	if strings.Contains(text, "\t\t") {
		t.Errorf("body = %q, want no hit line emitted for the hit-less placeholder row", text)
	}
}
