// Package workdir models scoped working-directory ownership: a run owns
// the directory for its lifetime and releases (but does not delete unless
// told) on completion.
package workdir

import (
	"os"
	"path/filepath"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Dir is an acquired working directory. The zero value is not usable; call
// Acquire.
type Dir struct {
	path string
}

// Acquire creates path (if it doesn't already exist) and returns a Dir
// bound to it, mirroring the permissive os.MkdirAll pattern
// pileup/snp/pileup.go uses for its own tempDir option before spawning
// workers.
func Acquire(path string) (Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return Dir{}, errors.Wrap(err, path)
	}
	return Dir{path: path}, nil
}

// Path returns the working directory's filesystem path.
func (d Dir) Path() string { return d.path }

// Join joins elem onto the working directory's path.
func (d Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Release marks the run's use of the directory as finished. It does not
// delete the directory's contents — a run only deletes when explicitly told
// to — it just logs the release so operators can correlate a
// run's lifetime with its working directory in the log stream.
func (d Dir) Release() {
	log.Printf("workdir: releasing %s", d.path)
}

// RemoveAll deletes the working directory and everything under it. Only
// called when a caller was explicitly told to clean up.
func (d Dir) RemoveAll() error {
	return os.RemoveAll(d.path)
}
