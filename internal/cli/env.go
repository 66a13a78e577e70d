package cli

import (
	"log/slog"
	"path/filepath"

	"github.com/proofrig/proofrig/internal/analysis"
	"github.com/proofrig/proofrig/internal/depcache"
	"github.com/proofrig/proofrig/internal/pipeline"
	"github.com/proofrig/proofrig/internal/proof"
	"github.com/proofrig/proofrig/internal/toolchain"
)

// buildEnv bundles everything a build target needs for one proof
// directory: the immutable configuration, the toolchain, the workspace,
// the dependency cache, and the pipeline and analysis driver wired over
// them.
type buildEnv struct {
	Config    *proof.Config
	Tools     *toolchain.Toolchain
	Workspace *pipeline.Workspace
	Cache     *depcache.Store
	Pipeline  *pipeline.Pipeline
	Driver    *analysis.Driver
}

// newBuildEnv loads the proof configuration from dir and assembles the
// build environment. Configuration problems return ExitCommandError:
// nothing has run yet, so the process must not claim a tool failure.
func newBuildEnv(opts *RootOptions, dir string) (*buildEnv, error) {
	cfg, err := LoadProof(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid proof configuration", err)
	}

	toolsPath := opts.Tools
	if toolsPath == "" {
		toolsPath = filepath.Join(dir, "tools.yaml")
	}
	tools, err := toolchain.Load(toolsPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid toolchain configuration", err)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve proof directory", err)
	}

	ws := pipeline.NewWorkspace(root, cfg.Entry)
	cache, err := depcache.Open(ws.CachePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open dependency cache", err)
	}

	log := slog.Default()
	runner := pipeline.NewRunner(log)
	env := &buildEnv{
		Config:    cfg,
		Tools:     tools,
		Workspace: ws,
		Cache:     cache,
		Pipeline: &pipeline.Pipeline{
			Config:    cfg,
			Tools:     tools,
			Workspace: ws,
			Cache:     cache,
			Runner:    runner,
			Log:       log,
		},
		Driver: &analysis.Driver{
			Config:    cfg,
			Tools:     tools,
			Workspace: ws,
			Runner:    runner,
			Log:       log,
		},
	}
	return env, nil
}

// Close releases the dependency cache.
func (e *buildEnv) Close() {
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			slog.Error("closing dependency cache", "error", err)
		}
	}
}
