package pipeline

import (
	"fmt"

	"github.com/proofrig/proofrig/internal/proof"
	"github.com/proofrig/proofrig/internal/toolchain"
)

// Stage is one descriptor in the transformation table. A stage consumes
// artifact Index-1 (the original sources for Index 0) plus the immutable
// configuration and produces artifact Index. The walker treats every stage
// identically; all per-stage behavior lives in the descriptor.
type Stage struct {
	// Index is the stage's position in the 0..7 chain and the number of
	// the artifact it produces.
	Index int

	// Name identifies the stage in logs and cache rows.
	Name string

	// Enabled reports whether the stage runs for this configuration. A
	// disabled stage degrades to a no-op copy with SkipReason written to
	// its log.
	Enabled func(*proof.Config) bool

	// SkipReason explains a skip in the stage's log.
	SkipReason string

	// SourceInputs lists file inputs the stage reads beyond the prior
	// artifact. They participate in the stage's staleness fingerprint.
	SourceInputs func(*proof.Config) []string

	// Command builds the full argv for the stage. in is the prior
	// artifact ("" for stage 0), out the artifact to produce.
	Command func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string
}

// abortFunction is the control-flow-termination function whose body, when
// stripped, is regenerated as an unconditional assertion failure so that
// analysis reports "abort reached" as a violation instead of unmodeled
// termination.
const abortFunction = "abort"

func noInputs(*proof.Config) []string { return nil }

// Stages returns the transformation table.
//
// The ordering is fixed: body stripping must precede abstraction injection
// (replacing a body that still exists risks a duplicate-definition
// failure), and the two elimination stages must follow every
// content-introducing stage so they see the true final call graph. The
// three gated stages (3-5) sit between injection and elimination because
// constant propagation benefits from unwound loop bodies and synthesized
// bodies keep simplification from choking on body-less functions.
func Stages() []Stage {
	return []Stage{
		{
			Index:        0,
			Name:         "compile",
			Enabled:      func(*proof.Config) bool { return true },
			SourceInputs: func(cfg *proof.Config) []string {
				return append([]string{cfg.Harness}, cfg.Sources...)
			},
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, _, out string) []string {
				argv := []string{tc.GotoCC,
					"--function", cfg.Entry,
					"--export-function-local-symbols",
				}
				argv = append(argv, cfg.IncludeFlags()...)
				argv = append(argv, cfg.DefineFlags()...)
				argv = append(argv, cfg.Harness)
				argv = append(argv, cfg.Sources...)
				return append(argv, "-o", out)
			},
		},
		{
			Index:        1,
			Name:         "remove-function-bodies",
			Enabled:      func(cfg *proof.Config) bool { return len(cfg.RemoveFunctionBody) > 0 },
			SkipReason:   "no function bodies configured for removal",
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				argv := []string{tc.GotoInstrument}
				hasAbort := false
				for _, fn := range cfg.RemoveFunctionBody {
					argv = append(argv, "--remove-function-body", fn)
					if fn == abortFunction {
						hasAbort = true
					}
				}
				if hasAbort {
					argv = append(argv,
						"--generate-function-body", abortFunction,
						"--generate-function-body-options", "assert-false")
				}
				return append(argv, in, out)
			},
		},
		{
			Index:        2,
			Name:         "apply-abstractions",
			Enabled:      func(cfg *proof.Config) bool { return len(cfg.Abstractions) > 0 },
			SkipReason:   "no abstractions configured",
			SourceInputs: func(cfg *proof.Config) []string {
				return cfg.Abstractions
			},
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				argv := []string{tc.GotoCC}
				argv = append(argv, cfg.IncludeFlags()...)
				argv = append(argv, cfg.DefineFlags()...)
				argv = append(argv, in)
				argv = append(argv, cfg.Abstractions...)
				return append(argv, "-o", out)
			},
		},
		{
			Index:        3,
			Name:         "unwind-loops",
			Enabled:      func(cfg *proof.Config) bool { return cfg.UnwindStage },
			SkipReason:   "unwind stage disabled",
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				argv := []string{tc.GotoInstrument, "--unwind", fmt.Sprintf("%d", cfg.Unwind)}
				if set := cfg.UnwindSetFlagValue(); set != "" {
					argv = append(argv, "--unwindset", set)
				}
				return append(argv, in, out)
			},
		},
		{
			Index:        4,
			Name:         "generate-function-bodies",
			Enabled:      func(cfg *proof.Config) bool { return cfg.GenerateBodies },
			SkipReason:   "body generation disabled",
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				return []string{tc.GotoInstrument,
					"--generate-function-body", ".*",
					"--generate-function-body-options", "nondet-return",
					in, out}
			},
		},
		{
			Index:        5,
			Name:         "simplify",
			Enabled:      func(cfg *proof.Config) bool { return cfg.Simplify },
			SkipReason:   "simplification disabled",
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				return []string{tc.GotoInstrument, "--constant-propagator", in, out}
			},
		},
		{
			Index:        6,
			Name:         "drop-unused-functions",
			Enabled:      func(*proof.Config) bool { return true },
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				return []string{tc.GotoInstrument, "--drop-unused-functions", in, out}
			},
		},
		{
			Index:        7,
			Name:         "slice-global-inits",
			Enabled:      func(*proof.Config) bool { return true },
			SourceInputs: noInputs,
			Command:      func(cfg *proof.Config, tc *toolchain.Toolchain, in, out string) []string {
				return []string{tc.GotoInstrument, "--slice-global-inits", in, out}
			},
		},
	}
}
