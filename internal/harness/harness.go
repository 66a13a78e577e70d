package harness

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofrig/proofrig/internal/analysis"
	"github.com/proofrig/proofrig/internal/depcache"
	"github.com/proofrig/proofrig/internal/pipeline"
	"github.com/proofrig/proofrig/internal/proof"
)

// Result exposes the run's moving parts for scenario-specific follow-up
// assertions in tests.
type Result struct {
	Config    *proof.Config
	Workspace *pipeline.Workspace
	Pipeline  *pipeline.Pipeline
	Driver    *analysis.Driver

	// CheckOutcome is set when the scenario requested a check analysis.
	CheckOutcome pipeline.Outcome
}

// Run executes a scenario in a fresh temporary workspace and asserts its
// expectations. The returned Result is valid even when assertions failed,
// so callers can add diagnostics.
func Run(t *testing.T, sc *Scenario) *Result {
	t.Helper()
	ctx := context.Background()

	workDir := t.TempDir()
	writeSources(t, workDir, sc)

	cfg := sc.Proof // copy; the scenario value stays pristine
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate(), "scenario %s: invalid proof config", sc.Name)

	tools, err := writeFakeTools(t.TempDir(), sc.Tools)
	require.NoError(t, err)

	ws := pipeline.NewWorkspace(workDir, cfg.Entry)
	cache, err := depcache.Open(ws.CachePath())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := pipeline.NewRunner(log)
	res := &Result{
		Config:    &cfg,
		Workspace: ws,
		Pipeline: &pipeline.Pipeline{
			Config:    &cfg,
			Tools:     tools,
			Workspace: ws,
			Cache:     cache,
			Runner:    runner,
			Log:       log,
		},
		Driver: &analysis.Driver{
			Config:    &cfg,
			Tools:     tools,
			Workspace: ws,
			Runner:    runner,
			Log:       log,
		},
	}

	buildErr := res.Pipeline.BuildGoto(ctx)
	if sc.Expect.BuildError {
		require.Error(t, buildErr, "scenario %s: build should fail", sc.Name)
		return res
	}
	require.NoError(t, buildErr, "scenario %s: build failed", sc.Name)
	assert.FileExists(t, ws.FinalArtifact(), "scenario %s: final artifact missing", sc.Name)

	assertStageLogs(t, sc, ws)
	assertIdenticalArtifacts(t, sc, ws)
	runExpectedAnalyses(t, ctx, sc, res)
	return res
}

func writeSources(t *testing.T, dir string, sc *Scenario) {
	t.Helper()
	for name, content := range sc.Sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	// Default harness file so minimal scenarios need no sources block.
	harnessFile := sc.Proof.Harness
	if harnessFile == "" {
		harnessFile = sc.Proof.Entry + "_harness.c"
	}
	path := filepath.Join(dir, harnessFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		content := "void " + sc.Proof.Entry + "(void) {}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// assertStageLogs verifies every named stage has a log recording a run or
// a skip, matching the expectation.
func assertStageLogs(t *testing.T, sc *Scenario, ws *pipeline.Workspace) {
	t.Helper()
	indexOf := make(map[string]int)
	for _, st := range pipeline.Stages() {
		indexOf[st.Name] = st.Index
	}

	for _, name := range sc.Expect.StagesRun {
		idx, ok := indexOf[name]
		require.True(t, ok, "scenario %s: unknown stage %q", sc.Name, name)
		log := readLog(t, ws.StageLog(idx, name))
		assert.NotContains(t, log, "skipped", "scenario %s: stage %s should have run", sc.Name, name)
	}
	for _, name := range sc.Expect.StagesSkipped {
		idx, ok := indexOf[name]
		require.True(t, ok, "scenario %s: unknown stage %q", sc.Name, name)
		log := readLog(t, ws.StageLog(idx, name))
		assert.Contains(t, log, "skipped", "scenario %s: stage %s should have been skipped", sc.Name, name)
	}
}

func assertIdenticalArtifacts(t *testing.T, sc *Scenario, ws *pipeline.Workspace) {
	t.Helper()
	if len(sc.Expect.IdenticalArtifacts) < 2 {
		return
	}
	first := sc.Expect.IdenticalArtifacts[0]
	want, err := os.ReadFile(ws.Artifact(first))
	require.NoError(t, err)
	for _, idx := range sc.Expect.IdenticalArtifacts[1:] {
		got, err := os.ReadFile(ws.Artifact(idx))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got),
			"scenario %s: artifact %d differs from artifact %d", sc.Name, idx, first)
	}
}

func runExpectedAnalyses(t *testing.T, ctx context.Context, sc *Scenario, res *Result) {
	t.Helper()
	if sc.Expect.CheckOutcome == "" {
		return
	}

	outcome, err := res.Driver.FullCheck(ctx)
	res.CheckOutcome = outcome
	switch sc.Expect.CheckOutcome {
	case "success":
		require.NoError(t, err, "scenario %s: check should succeed", sc.Name)
		assert.Equal(t, pipeline.Success, outcome.Class)
	case "violation":
		require.NoError(t, err, "scenario %s: violation must be tolerated", sc.Name)
		assert.Equal(t, pipeline.ViolationFound, outcome.Class)
		assert.Equal(t, pipeline.ViolationStatus, outcome.Status)
	case "failure":
		require.Error(t, err, "scenario %s: check should hard-fail", sc.Name)
		assert.Equal(t, pipeline.Failure, outcome.Class)
	default:
		t.Fatalf("scenario %s: unknown check_outcome %q", sc.Name, sc.Expect.CheckOutcome)
	}
	assert.FileExists(t, res.Workspace.CheckResult())

	if sc.Expect.AllAnalyses {
		_, err := res.Driver.Properties(ctx)
		require.NoError(t, err, "scenario %s: property enumeration must run", sc.Name)
		_, err = res.Driver.Coverage(ctx)
		require.NoError(t, err, "scenario %s: coverage must run", sc.Name)
		assert.FileExists(t, res.Workspace.PropertyResult())
		assert.FileExists(t, res.Workspace.CoverageResult())
	}
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "log %s must exist after every invocation attempt", path)
	return string(data)
}
