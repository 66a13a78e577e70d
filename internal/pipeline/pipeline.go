package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/proofrig/proofrig/internal/depcache"
	"github.com/proofrig/proofrig/internal/proof"
	"github.com/proofrig/proofrig/internal/toolchain"
)

// Pipeline walks the stage table for one entry point. Stages form a strict
// linear chain, so the walk is sequential by construction; each invocation
// blocks to completion before the next stage may begin.
type Pipeline struct {
	Config    *proof.Config
	Tools     *toolchain.Toolchain
	Workspace *Workspace
	Cache     *depcache.Store
	Runner    *Runner
	Log       *slog.Logger
}

// PlannedStage is one row of the pipeline's execution plan.
type PlannedStage struct {
	Index   int
	Name    string
	Enabled bool
	Reason  string   // skip reason when disabled
	Argv    []string // command line when enabled
}

// Plan renders the stage table against the configuration without running
// anything. Used by validate and by tests inspecting the exact commands.
func (p *Pipeline) Plan() []PlannedStage {
	stages := Stages()
	plan := make([]PlannedStage, 0, len(stages))
	for _, st := range stages {
		in := ""
		if st.Index > 0 {
			in = p.Workspace.Artifact(st.Index - 1)
		}
		out := p.Workspace.Artifact(st.Index)
		ps := PlannedStage{Index: st.Index, Name: st.Name, Enabled: st.Enabled(p.Config)}
		if ps.Enabled {
			ps.Argv = st.Command(p.Config, p.Tools, in, out)
		} else {
			ps.Reason = st.SkipReason
		}
		plan = append(plan, ps)
	}
	return plan
}

// BuildGoto produces the canonical final artifact, re-running only stages
// whose declared inputs changed since the last build. On hard failure the
// failing stage's log is preserved and no later stage runs.
func (p *Pipeline) BuildGoto(ctx context.Context) error {
	if err := p.Workspace.EnsureDirs(); err != nil {
		return err
	}

	for _, st := range Stages() {
		if err := p.runStage(ctx, st); err != nil {
			return err
		}
	}

	// The final artifact is a plain copy of the last stage's output under
	// the canonical name; later consumers never reach back into the chain.
	final := p.Workspace.FinalArtifact()
	if err := copyFile(p.Workspace.Artifact(7), final); err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}
	p.Log.Info("final artifact ready", "entry", p.Config.Entry, "path", final)
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, st Stage) error {
	in := ""
	if st.Index > 0 {
		in = p.Workspace.Artifact(st.Index - 1)
	}
	out := p.Workspace.Artifact(st.Index)

	enabled := st.Enabled(p.Config)
	var argv []string
	if enabled {
		argv = st.Command(p.Config, p.Tools, in, out)
	} else {
		// A disabled stage still fingerprints: toggling it on later must
		// invalidate the cached artifact.
		argv = []string{"skip", st.SkipReason}
	}

	fp, err := p.fingerprint(st, in, argv)
	if err != nil {
		return err
	}

	upToDate, err := p.Cache.UpToDate(ctx, p.Config.Entry, st.Index, fp)
	if err != nil {
		return err
	}
	if upToDate && fileExists(out) {
		p.Log.Debug("stage up to date", "stage", st.Index, "name", st.Name)
		return nil
	}

	if enabled {
		inv := Invocation{
			Name:    st.Name,
			Argv:    argv,
			Dir:     p.Workspace.Root,
			LogPath: p.Workspace.StageLog(st.Index, st.Name),
			Policy:  Strict,
		}
		if _, err := p.Runner.Run(ctx, inv); err != nil {
			return err
		}
	} else {
		logPath := p.Workspace.StageLog(st.Index, st.Name)
		if err := p.Runner.Skip(st.Name, in, out, logPath, st.SkipReason); err != nil {
			return err
		}
	}

	outHash, err := depcache.FileDigest(out)
	if err != nil {
		return fmt.Errorf("stage %s produced no readable output: %w", st.Name, err)
	}
	return p.Cache.Record(ctx, depcache.Build{
		Entry:       p.Config.Entry,
		Stage:       st.Index,
		Fingerprint: fp,
		OutputHash:  outHash,
		RunID:       p.Runner.RunID(),
		BuiltAt:     time.Now(),
	})
}

// fingerprint hashes the stage's command line together with the digests of
// its file inputs: the prior artifact plus any declared source inputs.
func (p *Pipeline) fingerprint(st Stage, in string, argv []string) (string, error) {
	var digests []string
	if in != "" {
		digest, err := depcache.FileDigest(in)
		if err != nil {
			return "", fmt.Errorf("stage %s: missing input artifact: %w", st.Name, err)
		}
		digests = append(digests, digest)
	}
	for _, src := range st.SourceInputs(p.Config) {
		digest, err := depcache.FileDigest(p.resolve(src))
		if err != nil {
			return "", fmt.Errorf("stage %s: missing source input: %w", st.Name, err)
		}
		digests = append(digests, digest)
	}
	return depcache.StageFingerprint(argv, digests), nil
}

// resolve maps a configuration-relative path to the workspace root.
func (p *Pipeline) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Workspace.Root, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Describe renders the plan as one line per stage, used by validate output
// and golden snapshots.
func Describe(plan []PlannedStage) string {
	var b strings.Builder
	for _, ps := range plan {
		if ps.Enabled {
			fmt.Fprintf(&b, "%d %s run: %s\n", ps.Index, ps.Name, strings.Join(ps.Argv, " "))
		} else {
			fmt.Fprintf(&b, "%d %s skip: %s\n", ps.Index, ps.Name, ps.Reason)
		}
	}
	return b.String()
}
