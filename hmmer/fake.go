package hmmer

import (
	"context"

	"github.com/grailbio/base/file"
)

// FakeRunner is an in-repo test double that replays canned report bytes
// instead of invoking the real hmmsearch binary, so the cmd/macsylib
// end-to-end tests can exercise the pipeline end to end on any machine.
type FakeRunner struct {
	// Reports maps gene name to the tabular report bytes Run should write
	// for that gene's job.
	Reports map[string][]byte
}

func (r FakeRunner) Run(ctx context.Context, j Job) (err error) {
	body, ok := r.Reports[j.Gene]
	if !ok {
		body = []byte("# no hits\n")
	}
	f, err := file.Create(ctx, j.ReportPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, f, &err)
	_, err = f.Writer(ctx).Write(body)
	return err
}
