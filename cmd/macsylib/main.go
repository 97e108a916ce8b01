// Command macsylib detects macromolecular systems in a set of proteins by
// running HMM profile searches, clustering the selected hits, building
// candidate systems per model, scoring them, and resolving the best
// per-replicon solution.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gem-pasteur/macsylib/candidate"
	"github.com/gem-pasteur/macsylib/catalog"
	"github.com/gem-pasteur/macsylib/cluster"
	"github.com/gem-pasteur/macsylib/config"
	"github.com/gem-pasteur/macsylib/hitstream"
	"github.com/gem-pasteur/macsylib/hmmer"
	"github.com/gem-pasteur/macsylib/replicon"
	"github.com/gem-pasteur/macsylib/report"
	"github.com/gem-pasteur/macsylib/resolve"
	"github.com/gem-pasteur/macsylib/score"
	"github.com/gem-pasteur/macsylib/seqdb"
	"github.com/gem-pasteur/macsylib/workdir"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"
)

// Exit codes.
const (
	exitSuccess      = 0
	exitUserError    = 1
	exitDataError    = 2
	exitRuntimeError = 3
	exitTimeout      = 4
)

type cliFlags struct {
	sequenceDB      string
	dbType          string
	replicons       string
	modelsDir       string
	models          string // comma-separated FQNs/wildcards, or "all"
	hmmerPath       string
	worker          int
	iEvalueSel      float64
	coverageProfile float64
	workDir         string
	outDir          string
	timeout         int
	cfgFile         string
}

func main() {
	var f cliFlags
	flag.StringVar(&f.sequenceDB, "sequence-db", "", "Path to the protein FASTA database.")
	flag.StringVar(&f.dbType, "db-type", "", "unordered | ordered_replicon | gembase.")
	flag.StringVar(&f.replicons, "replicons", "", "Optional topology file (<replicon>\\t<linear|circular>).")
	flag.StringVar(&f.modelsDir, "models-dir", "", "Model package directory.")
	flag.StringVar(&f.models, "models", "all", "Comma-separated model FQNs, \"family/path/*\" wildcards, or \"all\".")
	flag.StringVar(&f.hmmerPath, "hmmer-path", "", "Path to the hmmsearch binary.")
	flag.IntVar(&f.worker, "worker", 0, "HMM search parallelism.")
	flag.Float64Var(&f.iEvalueSel, "i-evalue-sel", 0, "i-evalue selection threshold.")
	flag.Float64Var(&f.coverageProfile, "coverage-profile", 0, "Profile coverage selection threshold.")
	flag.StringVar(&f.workDir, "work-dir", "", "Scratch directory for HMM reports and checkpoints.")
	flag.StringVar(&f.outDir, "out-dir", ".", "Output directory for report files.")
	flag.IntVar(&f.timeout, "timeout", 0, "Per-replicon resolver timeout in seconds (0 = unbounded).")
	flag.StringVar(&f.cfgFile, "cfg-file", "", "Explicit config file, highest precedence before CLI flags.")
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	code := run(ctx, f, nil)
	if code != exitSuccess {
		os.Exit(code)
	}
	log.Printf("macsylib: done")
}

// run executes one end-to-end pipeline invocation. runner overrides how HMM
// searches are executed; nil selects the production hmmer.ExecRunner. Tests
// pass an hmmer.FakeRunner to exercise the pipeline without hmmsearch
// installed.
func run(ctx context.Context, f cliFlags, runner hmmer.Runner) int {
	cliOverride := config.Opts{
		Sequencedb: f.sequenceDB, DBType: f.dbType, Replicons: f.replicons,
		ModelsDir: f.modelsDir, HmmerPath: f.hmmerPath, Worker: f.worker,
		IEvalueSel: f.iEvalueSel, CoverageProfile: f.coverageProfile,
		WorkDir: f.workDir, OutDir: f.outDir, Timeout: f.timeout, CfgFile: f.cfgFile,
	}
	if f.models != "" && f.models != "all" {
		cliOverride.ModelNames = strings.Split(f.models, ",")
	}

	opts, err := config.Chain(ctx, systemWideConfigPath(), userConfigPath(), f.modelsDir, projectConfigPath(), f.cfgFile, cliOverride)
	if err != nil {
		log.Error.Printf("macsylib: configuration error: %v", err)
		return exitUserError
	}
	if opts.ModelsDir == "" || opts.Sequencedb == "" {
		log.Error.Printf("macsylib: --models-dir and --sequence-db are required")
		return exitUserError
	}

	wd, err := workdir.Acquire(opts.WorkDir)
	if err != nil {
		log.Error.Printf("macsylib: cannot acquire working directory: %v", err)
		return exitUserError
	}
	defer wd.Release()

	cat, err := catalog.Load(opts.ModelsDir)
	if err != nil {
		log.Error.Printf("macsylib: model package error: %v", err)
		return exitDataError
	}

	models, err := cat.ModelsToDetect(opts.ModelNames)
	if err != nil {
		log.Error.Printf("macsylib: %v", err)
		return exitUserError
	}
	for _, m := range models {
		m.ApplyOverrides(opts.PerModelInterGeneMaxSpace, opts.PerModelMinGenesRequired)
	}

	dbType, err := seqdb.ParseDBType(opts.DBType)
	if err != nil {
		log.Error.Printf("macsylib: %v", err)
		return exitUserError
	}
	var topo seqdb.Topology
	if opts.Replicons != "" {
		if topo, err = seqdb.LoadTopology(ctx, opts.Replicons); err != nil {
			log.Error.Printf("macsylib: %v", err)
			return exitDataError
		}
	}
	repSizes, err := seqdb.CountProteins(ctx, dbType, opts.Sequencedb)
	if err != nil {
		log.Error.Printf("macsylib: %v", err)
		return exitDataError
	}

	checkpointPath := wd.Join("hitstream.checkpoint")
	raw, err := hitstream.ReadCheckpoint(ctx, checkpointPath, cat.Bank)
	switch {
	case err == nil:
		log.Printf("macsylib: resuming %d hits from checkpoint %s", len(raw), checkpointPath)
	case !os.IsNotExist(errors.Cause(err)):
		log.Error.Printf("macsylib: reading checkpoint %s: %v", checkpointPath, err)
		return exitDataError
	default:
		jobs, geneOf := planHMMSearches(models, opts.ModelsDir, opts.Sequencedb, wd)
		if runner == nil {
			runner = hmmer.ExecRunner{BinPath: opts.HmmerPath}
		}
		if err := hmmer.RunAll(ctx, runner, jobs, opts.Worker); err != nil {
			log.Error.Printf("macsylib: hmmsearch invocation failed: %v", err)
			return exitRuntimeError
		}

		for _, j := range jobs {
			gene := geneOf[j.Gene]
			hits, err := hitstream.ParseReport(ctx, j.ReportPath, gene)
			if err != nil {
				log.Error.Printf("macsylib: malformed HMM report %s: %v", j.ReportPath, err)
				return exitDataError
			}
			for i := range hits {
				switch dbType {
				case seqdb.Gembase:
					if rep, err := seqdb.RepliconFor(dbType, hits[i].ProteinID); err == nil {
						hits[i].Replicon = rep
					}
				case seqdb.OrderedReplicon:
					hits[i].Replicon = seqdb.RepliconNameFromPath(opts.Sequencedb)
				}
			}
			raw = append(raw, hits...)
		}

		if err := hitstream.WriteCheckpoint(ctx, checkpointPath, raw); err != nil {
			log.Error.Printf("macsylib: writing checkpoint %s: %v", checkpointPath, err)
		}
	}

	stream, err := hitstream.Build(raw, hitstream.Thresholds{IEvalueSel: opts.IEvalueSel, CoverageProfile: opts.CoverageProfile})
	if err != nil {
		log.Error.Printf("macsylib: %v", err)
		return exitDataError
	}

	byReplicon := make(map[string][]*candidate.System)
	var rejectedAll []*candidate.Rejected
	repWarnings := make(map[string][]candidate.Warning)
	weights := opts.ScoreWeights()

	for _, repName := range stream.Replicons() {
		rep := replicon.Replicon{Name: repName, Size: repSizes[repName], Topology: topo.Lookup(repName)}
		hits := stream.AllHits(repName)
		for _, m := range models {
			res := cluster.Build(rep, hits, m)
			accepted, rejected, warnings := candidate.Build(repName, m, res)
			for _, sys := range accepted {
				score.Score(sys, weights)
			}
			byReplicon[repName] = append(byReplicon[repName], accepted...)
			rejectedAll = append(rejectedAll, rejected...)
			repWarnings[repName] = append(repWarnings[repName], warnings...)
			for _, w := range warnings {
				log.Printf("macsylib: %s on %s: %s", m.FQN, repName, w.String())
			}
		}
	}

	var resolveCtx context.Context
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		resolveCtx, cancel = context.WithTimeout(ctx, time.Duration(opts.Timeout)*time.Second)
	} else {
		resolveCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	results, err := resolve.ResolveAll(resolveCtx, byReplicon)
	if err != nil {
		log.Error.Printf("macsylib: resolver error: %v", err)
		return exitRuntimeError
	}

	timeoutReplicons := make(map[string]bool)
	for _, r := range results {
		if r.Result.Status == resolve.Timeout {
			timeoutReplicons[r.Replicon] = true
		}
	}

	if err := writeReports(ctx, opts.OutDir, byReplicon, results, rejectedAll, repWarnings, timeoutReplicons); err != nil {
		log.Error.Printf("macsylib: writing reports: %v", err)
		return exitRuntimeError
	}

	if len(timeoutReplicons) > 0 {
		return exitTimeout
	}
	return exitSuccess
}

// warningCommentLines renders every replicon's loner-adequacy and
// resolver-timeout warnings as "# WARNING"-prefixed comment lines, replicons
// in ascending order, so they can be appended to report.CommentLines' fixed
// preamble.
func warningCommentLines(repWarnings map[string][]candidate.Warning, timeoutReplicons map[string]bool) []string {
	seen := make(map[string]bool, len(repWarnings)+len(timeoutReplicons))
	reps := make([]string, 0, len(repWarnings)+len(timeoutReplicons))
	for r := range repWarnings {
		if !seen[r] {
			seen[r] = true
			reps = append(reps, r)
		}
	}
	for r := range timeoutReplicons {
		if !seen[r] {
			seen[r] = true
			reps = append(reps, r)
		}
	}
	sort.Strings(reps)

	var lines []string
	for _, rep := range reps {
		for _, w := range repWarnings[rep] {
			lines = append(lines, "# WARNING "+w.String())
		}
		if timeoutReplicons[rep] {
			lines = append(lines, fmt.Sprintf("# WARNING resolver timeout on replicon %s: best solution found so far may not be optimal", rep))
		}
	}
	return lines
}

// planHMMSearches builds one hmmer.Job per distinct (gene, profile) unit of
// work across every selected model, deduplicating genes shared by more than
// one model.
func planHMMSearches(models []*catalog.Model, modelsDir, sequenceDB string, wd workdir.Dir) ([]hmmer.Job, map[string]*catalog.CoreGene) {
	seen := make(map[string]bool)
	geneOf := make(map[string]*catalog.CoreGene)
	var jobs []hmmer.Job
	addGene := func(mg *catalog.ModelGene) {
		name := mg.Gene.Name
		if seen[name] {
			return
		}
		seen[name] = true
		geneOf[name] = mg.Gene
		jobs = append(jobs, hmmer.Job{
			Gene:        name,
			ProfilePath: filepath.Join(modelsDir, "profiles", name+".hmm"),
			Database:    sequenceDB,
			ReportPath:  wd.Join(name + ".tbl"),
		})
	}
	for _, m := range models {
		for _, mg := range m.Genes {
			addGene(mg)
			for _, ex := range mg.Exchangeables {
				addGene(ex)
			}
		}
	}
	return jobs, geneOf
}

func writeReports(ctx context.Context, outDir string, byReplicon map[string][]*candidate.System, results []resolve.RepliconResult, rejected []*candidate.Rejected, repWarnings map[string][]candidate.Warning, timeoutReplicons map[string]bool) error {
	comments := append(report.CommentLines("1.0", strings.Join(os.Args, " "), ""), warningCommentLines(repWarnings, timeoutReplicons)...)

	var allSystemRows []report.Row
	for _, systems := range byReplicon {
		usedIn := report.BuildUsedIn(systems)
		for _, sys := range systems {
			allSystemRows = append(allSystemRows, report.SystemRows(sys, usedIn)...)
		}
	}
	if err := report.WriteRows(ctx, filepath.Join(outDir, "all_systems.tsv"), comments, allSystemRows); err != nil {
		return err
	}

	var bestRows, lonerRows, multiRows []report.Row
	bestBySystem := make(map[string][]report.Row)
	bySolution := make(map[string][]report.Row)
	for _, rr := range results {
		usedIn := report.BuildUsedIn(rr.Result.Best.Systems)
		for _, sys := range rr.Result.Best.Systems {
			rows := report.SystemRows(sys, usedIn)
			bestRows = append(bestRows, rows...)
			bestBySystem[sys.SystemID()] = rows
			for _, r := range rows {
				if r.LocusNum < 0 {
					lonerRows = append(lonerRows, r)
				}
				if r.UsedIn != "" {
					multiRows = append(multiRows, r)
				}
			}
		}
		for si, sol := range rr.Result.AllBest {
			solID := fmt.Sprintf("%s_sol%d", rr.Replicon, si+1)
			solUsedIn := report.BuildUsedIn(sol.Systems)
			for _, sys := range sol.Systems {
				bySolution[solID] = append(bySolution[solID], report.SystemRows(sys, solUsedIn)...)
			}
		}
	}
	if err := report.WriteRows(ctx, filepath.Join(outDir, "best_solution.tsv"), comments, bestRows); err != nil {
		return err
	}
	if err := report.WriteText(ctx, filepath.Join(outDir, "best_solution.txt"), comments, bestBySystem); err != nil {
		return err
	}
	if err := report.WriteRows(ctx, filepath.Join(outDir, "best_solution_loners.tsv"), comments, lonerRows); err != nil {
		return err
	}
	if err := report.WriteRows(ctx, filepath.Join(outDir, "best_solution_multisystems.tsv"), comments, multiRows); err != nil {
		return err
	}
	if err := report.WriteAllBestSolutions(ctx, filepath.Join(outDir, "all_best_solutions.tsv"), comments, bySolution); err != nil {
		return err
	}

	var rejectedRows []report.RejectedRow
	byCandidate := make(map[string][]report.RejectedRow)
	for i, r := range rejected {
		rows := report.RejectedRows(i, r)
		rejectedRows = append(rejectedRows, rows...)
		if len(rows) > 0 {
			byCandidate[rows[0].CandidateID] = rows
		}
	}
	if err := report.WriteRejectedText(ctx, filepath.Join(outDir, "rejected_candidates.txt"), comments, byCandidate); err != nil {
		return err
	}
	if err := report.WriteRejected(ctx, filepath.Join(outDir, "rejected_candidates.tsv"), comments, rejectedRows); err != nil {
		return err
	}

	return nil
}

func systemWideConfigPath() string { return "/etc/macsylib/macsylib.yml" }
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".macsylib.yml")
}
func projectConfigPath() string { return "./macsylib.yml" }
