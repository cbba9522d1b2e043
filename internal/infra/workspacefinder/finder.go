package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

const opFindRoot = "workspace.find_root"

// Finder resolves the beerprep workspace that owns a directory: the
// nearest ancestor holding a beerprep.yaml file.
type Finder struct {
	ConfigFile string
}

func NewFinder() *Finder {
	return &Finder{ConfigFile: ConfigFile}
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

// FindRoot walks from startDir towards the filesystem root. A file path
// starts the walk at its directory. A directory named like the config
// file does not mark a workspace. Reaching the root yields not_found with
// Path set to the starting directory.
func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindInvalidConfig, Err: errors.New("start directory is empty")}
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindExecution, Path: startDir, Err: err}
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := filepath.Clean(start); ; {
		if isRegular(filepath.Join(dir, f.ConfigFile)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &domain.OpError{Op: opFindRoot, Kind: domain.KindNotFound, Path: start, Err: domain.ErrNotFound}
		}
		dir = parent
	}
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
