// Package analysis drives the verification engine over the final goto
// program: the full check with trace capture, property enumeration, and
// location coverage. The three invocations are independent and
// order-independent; a violation found by one never prevents another from
// running.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/proofrig/proofrig/internal/pipeline"
	"github.com/proofrig/proofrig/internal/proof"
	"github.com/proofrig/proofrig/internal/toolchain"
)

// Driver runs analyses against an already-built final artifact.
type Driver struct {
	Config    *proof.Config
	Tools     *toolchain.Toolchain
	Workspace *pipeline.Workspace
	Runner    *pipeline.Runner
	Log       *slog.Logger
}

// FullCheck runs every configured safety check with execution-trace
// generation on violation. A ViolationFound outcome is the expected result
// of a proof that finds a bug; the trace in the result file documents it.
func (d *Driver) FullCheck(ctx context.Context) (pipeline.Outcome, error) {
	argv := []string{d.Tools.CBMC}
	argv = append(argv, d.Config.EngineFlags()...)
	argv = append(argv, "--trace", d.Workspace.FinalArtifact())
	return d.run(ctx, "check", argv, d.Workspace.CheckResult())
}

// Properties enumerates every checked property without executing the
// analysis itself.
func (d *Driver) Properties(ctx context.Context) (pipeline.Outcome, error) {
	argv := []string{d.Tools.CBMC}
	argv = append(argv, d.Config.EngineFlags()...)
	argv = append(argv, "--show-properties", d.Workspace.FinalArtifact())
	return d.run(ctx, "property", argv, d.Workspace.PropertyResult())
}

// Coverage measures location coverage. The flag set deliberately omits
// unwinding assertions: coverage measurement must not itself be rejected
// by an unwinding-assertion failure.
func (d *Driver) Coverage(ctx context.Context) (pipeline.Outcome, error) {
	argv := []string{d.Tools.CBMC}
	argv = append(argv, d.Config.CoverageFlags()...)
	argv = append(argv, "--cover", "location", d.Workspace.FinalArtifact())
	return d.run(ctx, "coverage", argv, d.Workspace.CoverageResult())
}

// RunAll runs the three analyses in order. Tolerated violations do not
// short-circuit: all three result files exist afterwards unless one
// invocation hard-fails.
func (d *Driver) RunAll(ctx context.Context) error {
	if _, err := d.FullCheck(ctx); err != nil {
		return err
	}
	if _, err := d.Properties(ctx); err != nil {
		return err
	}
	if _, err := d.Coverage(ctx); err != nil {
		return err
	}
	return nil
}

// Report invokes the external report renderer over the three result files,
// the final artifact, and the source tree. The renderer is a pure consumer;
// it has no write access back into the pipeline, and it runs strict: a
// renderer failure is a hard failure, not a tolerated one.
func (d *Driver) Report(ctx context.Context) error {
	argv := []string{d.Tools.Viewer,
		"--goto", d.Workspace.FinalArtifact(),
		"--result", d.Workspace.CheckResult(),
		"--property", d.Workspace.PropertyResult(),
		"--coverage", d.Workspace.CoverageResult(),
		"--srcdir", d.Config.SourceRoot,
		"--reportdir", d.Workspace.ReportDir(),
	}
	inv := pipeline.Invocation{
		Name:    "report",
		Argv:    argv,
		Dir:     d.Workspace.Root,
		LogPath: d.Workspace.ReportLog(),
		Policy:  pipeline.Strict,
	}
	if _, err := d.Runner.Run(ctx, inv); err != nil {
		return err
	}
	d.Log.Info("report rendered", "dir", d.Workspace.ReportDir())
	return nil
}

func (d *Driver) run(ctx context.Context, name string, argv []string, result string) (pipeline.Outcome, error) {
	inv := pipeline.Invocation{
		Name:    name,
		Argv:    argv,
		Dir:     d.Workspace.Root,
		LogPath: result,
		Policy:  pipeline.TolerateViolation,
	}
	outcome, err := d.Runner.Run(ctx, inv)
	if err != nil {
		return outcome, fmt.Errorf("%s analysis: %w", name, err)
	}
	return outcome, nil
}
