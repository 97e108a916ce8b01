package config

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/grailbio/base/file"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// fileOpts is the on-disk shape of a config file tier: a subset of Opts'
// fields, yaml-tagged the way catalog's metadata.yml is, so a system-wide,
// user, project or --cfg-file config can set only the fields it cares about.
type fileOpts struct {
	Sequencedb string `yaml:"sequence_db"`
	DBType     string `yaml:"db_type"`
	Replicons  string `yaml:"replicons"`

	ModelsDir  string   `yaml:"models_dir"`
	ModelNames []string `yaml:"models"`

	HmmerPath        string  `yaml:"hmmer_path"`
	HmmerParallelism int     `yaml:"worker"`
	IEvalueSel       float64 `yaml:"i_evalue_sel"`
	CoverageProfile  float64 `yaml:"coverage_profile"`

	MandatoryWeight    float64 `yaml:"mandatory_weight"`
	AccessoryWeight    float64 `yaml:"accessory_weight"`
	ExchangeableWeight float64 `yaml:"exchangeable_weight"`
	OutOfCluster       float64 `yaml:"out_of_cluster"`
	RedundancyPenalty  float64 `yaml:"redundancy_penalty"`

	WorkDir string `yaml:"working_dir"`
	OutDir  string `yaml:"out_dir"`

	Timeout int `yaml:"timeout"`
}

// LoadFile reads one config-file tier. A missing file at this
// tier is not an error — system-wide and user config files are optional.
func LoadFile(ctx context.Context, path string) (opts Opts, err error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return Opts{}, nil
		}
		return Opts{}, errors.Wrap(err, path)
	}
	defer file.CloseAndReport(ctx, f, &err)

	var fo fileOpts
	if err := yaml.NewDecoder(f.Reader(ctx)).Decode(&fo); err != nil {
		return Opts{}, errors.Wrap(err, path)
	}
	return Opts{
		Sequencedb:         fo.Sequencedb,
		DBType:             fo.DBType,
		Replicons:          fo.Replicons,
		ModelsDir:          fo.ModelsDir,
		ModelNames:         fo.ModelNames,
		HmmerPath:          fo.HmmerPath,
		HmmerParallelism:   fo.HmmerParallelism,
		Worker:             fo.HmmerParallelism,
		IEvalueSel:         fo.IEvalueSel,
		CoverageProfile:    fo.CoverageProfile,
		MandatoryWeight:    fo.MandatoryWeight,
		AccessoryWeight:    fo.AccessoryWeight,
		ExchangeableWeight: fo.ExchangeableWeight,
		OutOfCluster:       fo.OutOfCluster,
		RedundancyPenalty:  fo.RedundancyPenalty,
		WorkDir:            fo.WorkDir,
		OutDir:             fo.OutDir,
		Timeout:            fo.Timeout,
	}, nil
}

// modelConfXML is the optional per-package default option override file:
// unlike the other tiers it's XML, matching the model definitions it ships
// alongside.
type modelConfXML struct {
	IEvalueSel      float64 `xml:"i_evalue_sel,attr"`
	CoverageProfile float64 `xml:"coverage_profile,attr"`
}

// loadModelConf reads model_conf.xml if present. A missing file is not an
// error: it's genuinely optional.
func loadModelConf(ctx context.Context, modelPackageDir string) (opts Opts, err error) {
	path := filepath.Join(modelPackageDir, "model_conf.xml")
	f, err := file.Open(ctx, path)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return Opts{}, nil
		}
		return Opts{}, errors.Wrap(err, path)
	}
	defer file.CloseAndReport(ctx, f, &err)

	var mc modelConfXML
	if err := xml.NewDecoder(f.Reader(ctx)).Decode(&mc); err != nil {
		return Opts{}, errors.Wrap(err, path)
	}
	return Opts{
		IEvalueSel:      mc.IEvalueSel,
		CoverageProfile: mc.CoverageProfile,
	}, nil
}

// Chain resolves the full precedence chain: system-wide <
// user < model package < project < --cfg-file < CLI. modelPackageDir may be
// "" before a model package has been selected; cfgFile/cliOverride may be
// zero-value Opts when the corresponding tier wasn't supplied.
func Chain(ctx context.Context, systemWidePath, userPath, modelPackageDir, projectPath, cfgFile string, cliOverride Opts) (Opts, error) {
	out := DefaultOpts

	for _, path := range []string{systemWidePath, userPath} {
		if path == "" {
			continue
		}
		tier, err := LoadFile(ctx, path)
		if err != nil {
			return Opts{}, err
		}
		out = Merge(out, tier)
	}

	if modelPackageDir != "" {
		tier, err := loadModelConf(ctx, modelPackageDir)
		if err != nil {
			return Opts{}, err
		}
		out = Merge(out, tier)
	}

	for _, path := range []string{projectPath, cfgFile} {
		if path == "" {
			continue
		}
		tier, err := LoadFile(ctx, path)
		if err != nil {
			return Opts{}, err
		}
		out = Merge(out, tier)
	}

	return Merge(out, cliOverride), nil
}
