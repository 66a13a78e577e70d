package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/proofrig/proofrig/internal/pipeline"
	"github.com/proofrig/proofrig/internal/proof"
	"github.com/proofrig/proofrig/internal/toolchain"
)

// goldenRoot is the fixed workspace root used for plan snapshots, so the
// rendered artifact paths are stable across machines.
const goldenRoot = "/proof"

// AssertPlanGolden renders the stage plan for a configuration against the
// default toolchain and a fixed workspace root, and compares it with the
// golden file testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertPlanGolden(t *testing.T, name string, cfg *proof.Config) {
	t.Helper()

	p := &pipeline.Pipeline{
		Config:    cfg,
		Tools:     toolchain.Default(),
		Workspace: pipeline.NewWorkspace(goldenRoot, cfg.Entry),
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(pipeline.Describe(p.Plan())))
}
