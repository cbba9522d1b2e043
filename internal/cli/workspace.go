package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/infra/fslisting"
	"github.com/srinivasaraghavankm/beer/internal/infra/gitfetch"
	"github.com/srinivasaraghavankm/beer/internal/infra/logger"
	"github.com/srinivasaraghavankm/beer/internal/infra/modelyaml"
	"github.com/srinivasaraghavankm/beer/internal/infra/runstore"
	"github.com/srinivasaraghavankm/beer/internal/infra/workspacefinder"
	"github.com/srinivasaraghavankm/beer/internal/ports"
	"github.com/srinivasaraghavankm/beer/internal/usecase"
)

type workspaceCtx struct {
	root string
	// found is false when no beerprep.yaml was located and defaults apply.
	found bool
	cfg   domain.Config

	listings *fslisting.Store
	fetcher  *gitfetch.Fetcher
	// store is nil outside a workspace so nothing is written under the cwd.
	store  *runstore.JSONStore
	models *modelyaml.Loader
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, found, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg := domain.DefaultConfig()
	if found {
		cfg, err = workspacefinder.LoadConfig(root)
		if err != nil {
			return nil, err
		}
	}
	cfg = workspacefinder.ApplyEnv(cfg, os.Getenv)

	ws := &workspaceCtx{
		root:     root,
		found:    found,
		cfg:      cfg,
		listings: fslisting.NewStore(),
		fetcher: gitfetch.New(
			gitfetch.WithDepth(cfg.Clone.Depth),
			gitfetch.WithTimeout(cfg.Clone.Timeout),
		),
		models: modelyaml.NewLoader(),
	}
	if found {
		ws.store = runstore.NewJSONStore(root, cfg, runstore.WithIndex(true))
	}
	return ws, nil
}

// artifactStore returns the run manifest store, or a nil interface when
// no workspace config was found.
func (ws *workspaceCtx) artifactStore() ports.ArtifactStore {
	if ws.store == nil {
		return nil
	}
	return ws.store
}

// resolveWorkspaceRoot returns the workspace root and whether it holds a
// beerprep.yaml. Without an explicit flag it searches upward from the
// working directory and falls back to the working directory itself.
func resolveWorkspaceRoot(workspaceFlag string) (string, bool, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", false, fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, fileExists(filepath.Join(abs, workspacefinder.ConfigFile)), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("get working directory: %w", err)
	}

	root, err := workspacefinder.NewFinder().FindRoot(wd)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return wd, false, nil
		}
		return "", false, err
	}
	return root, true, nil
}

// startLogger routes logs to the workspace log file. Outside a workspace
// logs are discarded. Logging problems never fail a command.
func (ws *workspaceCtx) startLogger(cmd *cobra.Command) func() {
	if !ws.found {
		return func() {}
	}
	cleanup, err := logger.Setup(logger.Config{
		Root:    ws.root,
		Dir:     ws.cfg.Paths.LogsDir,
		Debug:   debugEnabled(cmd),
		Command: cmd.Name(),
	})
	if err != nil || cleanup == nil {
		return func() {}
	}
	logger.L().Debug("workspace.loaded", "root", ws.root, "found", ws.found)
	return func() { _ = cleanup() }
}

func (ws *workspaceCtx) log() *slog.Logger {
	return logger.L()
}

// modelPath resolves a model file argument. An empty argument selects the
// workspace default; relative paths are taken from the working directory
// first and the workspace root second.
func (ws *workspaceCtx) modelPath(arg string) string {
	in := strings.TrimSpace(arg)
	if in == "" {
		return filepath.Join(ws.root, ws.cfg.Paths.ModelConfig)
	}
	if filepath.IsAbs(in) || fileExists(in) {
		return filepath.Clean(in)
	}
	if p := filepath.Join(ws.root, in); fileExists(p) {
		return p
	}
	return filepath.Clean(in)
}

func (ws *workspaceCtx) modelConfigs() *usecase.ModelConfigs {
	return usecase.NewModelConfigs(ws.models, ws.models)
}

func debugEnabled(cmd *cobra.Command) bool {
	v, err := cmd.Flags().GetBool("debug")
	return err == nil && v
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
