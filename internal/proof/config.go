package proof

import (
	"fmt"
	"strings"
)

// Default values applied by ApplyDefaults. The unwind bound of 1 forces
// every loop to be explicitly widened per proof; combined with unwinding
// assertions it turns an under-approximated loop into a reported violation
// rather than a silent truncation.
const (
	DefaultUnwind     = 1
	DefaultObjectBits = 6
	DefaultVerbosity  = 4 // results and above
)

// ObjectBitsDefine is the preprocessor symbol carrying the object-address-bit
// width into compiled code. It must always agree with the --object-bits
// engine flag; Validate enforces this before stage 0 runs.
const ObjectBitsDefine = "CBMC_OBJECT_BITS"

// DeepChecksDefine is the preprocessor symbol exposing the deep-checks
// toggle. It is a define only: stages and source decide what to do with it,
// the engine flag set is unaffected.
const DeepChecksDefine = "PROOF_DEEP_CHECKS"

// Config is the immutable per-proof configuration.
//
// Fields carry json tags because the CUE loader decodes proof.cue values
// through the JSON mapping, and yaml tags for the test harness scenario
// format.
type Config struct {
	// Entry is the name of the harness function under verification.
	// It determines the root artifact name: the final artifact is
	// <entry>.goto.
	Entry string `json:"entry" yaml:"entry"`

	// Harness is the path to the harness translation unit, relative to the
	// proof directory. Defaults to <entry>_harness.c.
	Harness string `json:"harness,omitempty" yaml:"harness,omitempty"`

	// Sources lists additional dependency source files compiled into the
	// initial representation alongside the harness.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// SourceRoot is the root of the source tree handed to the report
	// renderer. Defaults to the proof directory.
	SourceRoot string `json:"source_root,omitempty" yaml:"source_root,omitempty"`

	// RemoveFunctionBody lists functions whose implementations are stripped
	// in stage 1. ApplyDefaults seeds it with "abort" so that analysis
	// treats process termination as an immediately reported assertion
	// failure rather than unmodeled termination. An explicitly empty list
	// disables the stage.
	RemoveFunctionBody []string `json:"remove_function_body,omitempty" yaml:"remove_function_body,omitempty"`

	// Abstractions lists stub source files recompiled and linked over the
	// stripped bodies in stage 2. A stripped function with no abstraction
	// returns a non-deterministic value of its declared return type.
	Abstractions []string `json:"abstractions,omitempty" yaml:"abstractions,omitempty"`

	// Unwind is the global loop/recursion bound. Exceeding it is itself a
	// reported violation (unwinding assertions are always on for the check
	// and property analyses).
	Unwind int `json:"unwind,omitempty" yaml:"unwind,omitempty"`

	// UnwindSet maps function names to per-function unwind bounds. Rendered
	// as a single composite --unwindset flag; an empty map omits the flag.
	UnwindSet map[string]int `json:"unwindset,omitempty" yaml:"unwindset,omitempty"`

	// ObjectBits is the object-address-bit width, consumed both as an
	// engine flag and as the ObjectBitsDefine preprocessor define.
	ObjectBits int `json:"object_bits,omitempty" yaml:"object_bits,omitempty"`

	// DeepChecks enables costly extra checks in source via the
	// DeepChecksDefine define. Off by default.
	DeepChecks bool `json:"deep_checks,omitempty" yaml:"deep_checks,omitempty"`

	// UnwindStage enables the optional loop-unwinding stage (stage 3),
	// applied ahead of simplification because constant propagation benefits
	// from unwound loop bodies.
	UnwindStage bool `json:"unwind_stage,omitempty" yaml:"unwind_stage,omitempty"`

	// GenerateBodies enables the optional missing-body synthesis stage
	// (stage 4).
	GenerateBodies bool `json:"generate_bodies,omitempty" yaml:"generate_bodies,omitempty"`

	// Simplify enables the optional constant-propagation/simplification
	// stage (stage 5).
	Simplify bool `json:"simplify,omitempty" yaml:"simplify,omitempty"`

	// Verbosity is the engine's message verbosity level.
	Verbosity int `json:"verbosity,omitempty" yaml:"verbosity,omitempty"`

	// Includes lists extra include directories, Defines extra preprocessor
	// defines (NAME or NAME=VALUE, without the -D prefix).
	Includes []string `json:"includes,omitempty" yaml:"includes,omitempty"`
	Defines  []string `json:"defines,omitempty" yaml:"defines,omitempty"`
}

// ApplyDefaults fills unset fields with their documented defaults and
// returns the receiver for chaining. It must run before Validate.
//
// RemoveFunctionBody is only seeded when the field is nil: a proof that
// explicitly sets it to an empty list keeps the empty list, which turns
// stage 1 into a no-op.
func (c *Config) ApplyDefaults() *Config {
	if c.Harness == "" && c.Entry != "" {
		c.Harness = c.Entry + "_harness.c"
	}
	if c.SourceRoot == "" {
		c.SourceRoot = "."
	}
	if c.RemoveFunctionBody == nil {
		c.RemoveFunctionBody = []string{"abort"}
	}
	if c.Unwind == 0 {
		c.Unwind = DefaultUnwind
	}
	if c.ObjectBits == 0 {
		c.ObjectBits = DefaultObjectBits
	}
	if c.Verbosity == 0 {
		c.Verbosity = DefaultVerbosity
	}
	return c
}

// ConfigError reports an invalid configuration. It is detected before any
// stage runs, so a bad proof.cue never leaves partial artifacts behind.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the configuration for internal consistency.
//
// The object-bits agreement check is the load-bearing one: the engine flag
// and the preprocessor define both derive from ObjectBits, so the only way
// they can diverge is a user-supplied define for the same symbol. That is a
// configuration error, not a silent override.
func (c *Config) Validate() error {
	if c.Entry == "" {
		return &ConfigError{Field: "entry", Message: "entry function name is required"}
	}
	if c.Unwind < 1 {
		return &ConfigError{Field: "unwind", Message: fmt.Sprintf("bound must be >= 1, got %d", c.Unwind)}
	}
	for name, bound := range c.UnwindSet {
		if bound < 1 {
			return &ConfigError{Field: "unwindset", Message: fmt.Sprintf("bound for %q must be >= 1, got %d", name, bound)}
		}
	}
	if c.ObjectBits < 1 || c.ObjectBits > 32 {
		return &ConfigError{Field: "object_bits", Message: fmt.Sprintf("width must be in [1,32], got %d", c.ObjectBits)}
	}
	if c.Verbosity < 0 || c.Verbosity > 10 {
		return &ConfigError{Field: "verbosity", Message: fmt.Sprintf("level must be in [0,10], got %d", c.Verbosity)}
	}
	for _, d := range c.Defines {
		name, value, hasValue := strings.Cut(d, "=")
		if name != ObjectBitsDefine {
			continue
		}
		want := fmt.Sprintf("%d", c.ObjectBits)
		if !hasValue || value != want {
			return &ConfigError{
				Field:   "defines",
				Message: fmt.Sprintf("%s=%s conflicts with object_bits %d", ObjectBitsDefine, value, c.ObjectBits),
			}
		}
	}
	return nil
}
