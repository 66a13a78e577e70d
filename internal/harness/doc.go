// Package harness provides end-to-end conformance testing for the proof
// pipeline against fake external tools.
//
// A scenario is a YAML file describing one proof build: the configuration,
// the behavior of each fake tool (exit status, emitted output), and the
// expected result (which stages ran, which were skipped, which artifacts
// are byte-identical, the analysis outcome).
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	proof:
//	  entry: foo
//	  remove_function_body: []
//	tools:
//	  cbmc:
//	    exit_status: 10
//	    output: |
//	      VERIFICATION FAILED
//	expect:
//	  stages_run: [compile, drop-unused-functions, slice-global-inits]
//	  stages_skipped: [remove-function-bodies, apply-abstractions]
//	  identical_artifacts: [0, 1, 2, 3, 4, 5]
//	  check_outcome: violation
//
// # Fake Tools
//
// The harness writes shell-script stand-ins for goto-cc, goto-instrument,
// and cbmc into a temporary directory. The compiler fake concatenates its
// source arguments into the output artifact; the instrumentation fake
// copies its input artifact to its output unchanged; the engine fake prints
// its configured output and exits with its configured status. Stage
// semantics are the real code under test; the fakes only stand in for the
// external binaries.
//
// Every scenario runs in a fresh temporary workspace with its own
// dependency cache, so scenarios are order-independent and parallel-safe.
package harness
