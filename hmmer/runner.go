// Package hmmer wraps invocation of the external hmmsearch binary, one
// process per (gene, profile) unit of work.
package hmmer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/pkg/errors"
)

// Job is one hmmsearch invocation: search profile against database,
// producing a tabular report for gene.
type Job struct {
	Gene        string
	ProfilePath string
	Database    string
	ReportPath  string
}

// Runner executes Jobs. ExecRunner is the production implementation backed
// by os/exec; FakeRunner (fake.go) is the test double.
type Runner interface {
	Run(ctx context.Context, j Job) error
}

// ExecRunner shells out to hmmsearch using exec.CommandContext (so the
// process is killed when ctx is cancelled) with captured stderr, the same way cmd/bio-pileup's test helper runs external
// binaries.
type ExecRunner struct {
	BinPath string
}

func (r ExecRunner) Run(ctx context.Context, j Job) error {
	bin := r.BinPath
	if bin == "" {
		bin = "hmmsearch"
	}
	args := []string{"--tblout", j.ReportPath, j.ProfilePath, j.Database}
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(fmt.Errorf("hmmsearch %s: %v: %s", j.Gene, err, stderr.String()), j.ReportPath)
	}
	return nil
}

// RunAll schedules jobs across at most parallelism workers with
// traverse.Limit(parallelism).Each, the same worker-pool idiom pileup/snp/pileup.go and
// cmd/bio-fusion/main.go use for their own per-unit-of-work fan-out.
func RunAll(ctx context.Context, r Runner, jobs []Job, parallelism int) error {
	if parallelism <= 0 {
		parallelism = 1
	}
	log.Printf("hmmer: running %d job(s) with parallelism %d", len(jobs), parallelism)
	return traverse.Limit(parallelism).Each(len(jobs), func(i int) error {
		return r.Run(ctx, jobs[i])
	})
}
