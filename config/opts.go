// Package config assembles run options from the precedence chain:
// system-wide < user < model package < project < --cfg-file < CLI. Each
// tier contributes a partial Opts; later tiers override earlier ones field
// by field.
package config

import "github.com/gem-pasteur/macsylib/score"

// Opts uses a flat, grouped-by-comment layout: one struct with every
// tunable, rather than one struct per option group, since the groups only
// matter for *where a value came from*, not for how it's consumed
// downstream.
type Opts struct {
	// base
	Sequencedb string
	DBType     string // unordered | ordered_replicon | gembase
	Replicons  string // topology file path, optional

	// models
	ModelsDir  string
	ModelNames []string // FQNs or "family/path/*" wildcards; empty means "all"

	// models_opt: per fully-qualified model name threshold overrides
	PerModelInterGeneMaxSpace map[string]int
	PerModelMinGenesRequired  map[string]int

	// hmmer
	HmmerPath    string
	HmmerParallelism int
	IEvalueSel   float64
	CoverageProfile float64

	// score_opt
	MandatoryWeight    float64
	AccessoryWeight    float64
	ExchangeableWeight float64
	OutOfCluster       float64
	RedundancyPenalty  float64

	// directories
	WorkDir string
	OutDir  string

	// general
	Timeout      int // seconds, 0 = unbounded
	Worker       int
	CfgFile      string
}

// DefaultOpts mirrors fusion.DefaultOpts: the system-wide tier's values
// before any user/project/CLI override is applied.
var DefaultOpts = Opts{
	DBType:           "unordered",
	HmmerPath:        "hmmsearch",
	HmmerParallelism: 4,
	IEvalueSel:       1.0,
	CoverageProfile:  0.5,

	MandatoryWeight:    1.0,
	AccessoryWeight:    0.5,
	ExchangeableWeight: 0.8,
	OutOfCluster:       0.7,
	RedundancyPenalty:  1.5,

	Worker: 4,
}

// Merge overlays non-zero-value fields of override onto base, implementing
// one step of the precedence chain. String/int/float zero values are
// treated as "not set at this tier" — a tier that wants to reset to the
// literal zero must do so at a tier after which nothing else overrides it.
func Merge(base, override Opts) Opts {
	out := base
	if override.Sequencedb != "" {
		out.Sequencedb = override.Sequencedb
	}
	if override.DBType != "" {
		out.DBType = override.DBType
	}
	if override.Replicons != "" {
		out.Replicons = override.Replicons
	}
	if override.ModelsDir != "" {
		out.ModelsDir = override.ModelsDir
	}
	if len(override.ModelNames) > 0 {
		out.ModelNames = override.ModelNames
	}
	for fqn, v := range override.PerModelInterGeneMaxSpace {
		if out.PerModelInterGeneMaxSpace == nil {
			out.PerModelInterGeneMaxSpace = make(map[string]int)
		}
		out.PerModelInterGeneMaxSpace[fqn] = v
	}
	for fqn, v := range override.PerModelMinGenesRequired {
		if out.PerModelMinGenesRequired == nil {
			out.PerModelMinGenesRequired = make(map[string]int)
		}
		out.PerModelMinGenesRequired[fqn] = v
	}
	if override.HmmerPath != "" {
		out.HmmerPath = override.HmmerPath
	}
	if override.HmmerParallelism != 0 {
		out.HmmerParallelism = override.HmmerParallelism
	}
	if override.IEvalueSel != 0 {
		out.IEvalueSel = override.IEvalueSel
	}
	if override.CoverageProfile != 0 {
		out.CoverageProfile = override.CoverageProfile
	}
	if override.MandatoryWeight != 0 {
		out.MandatoryWeight = override.MandatoryWeight
	}
	if override.AccessoryWeight != 0 {
		out.AccessoryWeight = override.AccessoryWeight
	}
	if override.ExchangeableWeight != 0 {
		out.ExchangeableWeight = override.ExchangeableWeight
	}
	if override.OutOfCluster != 0 {
		out.OutOfCluster = override.OutOfCluster
	}
	if override.RedundancyPenalty != 0 {
		out.RedundancyPenalty = override.RedundancyPenalty
	}
	if override.WorkDir != "" {
		out.WorkDir = override.WorkDir
	}
	if override.OutDir != "" {
		out.OutDir = override.OutDir
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	if override.Worker != 0 {
		out.Worker = override.Worker
	}
	if override.CfgFile != "" {
		out.CfgFile = override.CfgFile
	}
	return out
}

// ScoreWeights projects the score_opt group into score.Weights.
func (o Opts) ScoreWeights() score.Weights {
	return score.Weights{
		MandatoryWeight:    o.MandatoryWeight,
		AccessoryWeight:    o.AccessoryWeight,
		ExchangeableWeight: o.ExchangeableWeight,
		OutOfCluster:       o.OutOfCluster,
		RedundancyPenalty:  o.RedundancyPenalty,
	}
}
