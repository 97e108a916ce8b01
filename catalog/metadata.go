package catalog

import (
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Metadata is the subset of a model package's metadata.yml that this
// engine cares about. Model packages typically carry more
// descriptive fields (author, short description, citations); those are
// preserved in Extra for pass-through by the (out-of-scope) package
// serializer.
type Metadata struct {
	Name        string            `yaml:"name,omitempty"`
	PackageName string            `yaml:"pkg_name"`
	Version     string            `yaml:"vers"`
	MaxSizeBp   int               `yaml:"max_size,omitempty"`
	Extra       map[string]string `yaml:",inline"`
}

func loadMetadata(path string) (Metadata, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Metadata{}, errors.Wrap(err, path)
	}
	var md Metadata
	if err := yaml.Unmarshal(data, &md); err != nil {
		return Metadata{}, errors.Wrap(err, path)
	}
	return md, nil
}
