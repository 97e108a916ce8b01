// Package pkgcheck implements the msl_data check collaborator:
// structural validation of a model package directory, reported as
// Diagnostics rather than failing the process outright.
package pkgcheck

import "github.com/gem-pasteur/macsylib/catalog"

// Severity distinguishes a Diagnostic that should block publishing a model
// package from one that's merely worth a human's attention.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "ERROR"
	}
	return "WARNING"
}

// Diagnostic carries the rejection taxonomy as a non-fatal value: a tuple
// the caller can print, count, or turn into a process exit code.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Path     string
}

// Checker accepts a model package directory and returns every warning and
// error found, without failing the process.
type Checker interface {
	Check(packageDir string) (warnings, errors []Diagnostic)
}

// Default is the built-in Checker: it runs catalog.Load on the package and
// reports a failure as a single LOAD_FAILED error. catalog.Load stops at the
// first structural violation (missing profile, unresolved gene reference,
// quorum invariant, cyclic exchangeables), so further violations in the
// package are not reported. On a successful load it adds per-model warnings.
type Default struct{}

func (Default) Check(packageDir string) (warnings, errors []Diagnostic) {
	cat, err := catalog.Load(packageDir)
	if err != nil {
		errors = append(errors, Diagnostic{Severity: Error, Code: "LOAD_FAILED", Message: err.Error(), Path: packageDir})
		return warnings, errors
	}

	models, _ := cat.ModelsToDetect(nil)
	for _, m := range models {
		if len(m.GenesWithRole(catalog.Mandatory)) == 0 {
			warnings = append(warnings, Diagnostic{
				Severity: Warning, Code: "NO_MANDATORY_GENES",
				Message: "model declares no mandatory genes", Path: m.FQN,
			})
		}
		for _, mg := range m.Genes {
			if mg.Loner && mg.Role == catalog.Forbidden {
				warnings = append(warnings, Diagnostic{
					Severity: Warning, Code: "LONER_FORBIDDEN",
					Message: "gene " + mg.Gene.Name + " is both loner and forbidden, loner has no effect",
					Path:    m.FQN,
				})
			}
		}
	}
	return warnings, errors
}
