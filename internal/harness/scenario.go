package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proofrig/proofrig/internal/proof"
)

// Scenario defines one end-to-end pipeline conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Proof is the proof configuration under test. Defaults are applied
	// before the run, exactly as the CUE loader would.
	Proof proof.Config `yaml:"proof"`

	// Sources maps file names to contents; the harness writes them into
	// the scenario workspace before the run. The harness file named by the
	// configuration is created automatically when absent.
	Sources map[string]string `yaml:"sources,omitempty"`

	// Tools configures the fake external tools by name ("goto-cc",
	// "goto-instrument", "cbmc", "viewer"). Unlisted tools behave as
	// well-behaved fakes exiting zero.
	Tools map[string]ToolBehavior `yaml:"tools,omitempty"`

	// Expect describes the required result.
	Expect Expectation `yaml:"expect"`
}

// ToolBehavior configures one fake tool.
type ToolBehavior struct {
	// ExitStatus is the fake's exit status (default 0).
	ExitStatus int `yaml:"exit_status,omitempty"`

	// Output is written to the fake's stdout before exiting, so it lands
	// in the invocation's log file.
	Output string `yaml:"output,omitempty"`
}

// Expectation describes the required result of a scenario run.
type Expectation struct {
	// BuildError, when true, requires the pipeline build itself to fail.
	BuildError bool `yaml:"build_error,omitempty"`

	// StagesRun lists stage names whose logs must record a tool
	// invocation.
	StagesRun []string `yaml:"stages_run,omitempty"`

	// StagesSkipped lists stage names whose logs must record a skip.
	StagesSkipped []string `yaml:"stages_skipped,omitempty"`

	// IdenticalArtifacts lists stage indices whose artifacts must all be
	// byte-identical (content, not metadata).
	IdenticalArtifacts []int `yaml:"identical_artifacts,omitempty"`

	// CheckOutcome, when set, runs the full-check analysis after the build
	// and requires this outcome class: "success", "violation", or
	// "failure".
	CheckOutcome string `yaml:"check_outcome,omitempty"`

	// AllAnalyses, when true, requires property enumeration and coverage
	// to succeed after the check, regardless of the check's outcome.
	AllAnalyses bool `yaml:"all_analyses,omitempty"`
}

// LoadScenario reads and parses a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if sc.Proof.Entry == "" {
		return nil, fmt.Errorf("scenario %s: proof.entry is required", path)
	}
	return &sc, nil
}
