package proof

import (
	"fmt"
	"sort"
	"strings"
)

// baselineChecks is the fixed set of safety checks every analysis runs
// with, in stable order. The set is not configurable: a proof that cannot
// pass a baseline check has found a bug, not a flag problem.
var baselineChecks = []string{
	"--bounds-check",
	"--conversion-check",
	"--div-by-zero-check",
	"--enum-range-check",
	"--float-overflow-check",
	"--nan-check",
	"--pointer-check",
	"--pointer-overflow-check",
	"--pointer-primitive-check",
	"--signed-overflow-check",
	"--unsigned-overflow-check",
	"--undefined-shift-check",
}

// EngineFlags composes the full verification-engine flag list: baseline
// checks, unwinding (with unwinding assertions), the composite unwindset,
// object bits, and verbosity. The same list is passed verbatim to the check
// and property analyses and to any instrumentation stage that needs engine
// semantics, so instrumentation and analysis always agree.
func (c *Config) EngineFlags() []string {
	return c.engineFlags(true)
}

// CoverageFlags composes the flag list for the coverage analysis: identical
// to EngineFlags except that unwinding assertions are withheld, so an
// insufficient unwind bound degrades coverage instead of failing it.
func (c *Config) CoverageFlags() []string {
	return c.engineFlags(false)
}

func (c *Config) engineFlags(unwindingAssertions bool) []string {
	flags := make([]string, 0, len(baselineChecks)+8)
	flags = append(flags, baselineChecks...)
	flags = append(flags, "--unwind", fmt.Sprintf("%d", c.Unwind))
	if unwindingAssertions {
		flags = append(flags, "--unwinding-assertions")
	}
	if set := c.UnwindSetFlagValue(); set != "" {
		flags = append(flags, "--unwindset", set)
	}
	flags = append(flags, "--object-bits", fmt.Sprintf("%d", c.ObjectBits))
	flags = append(flags, "--verbosity", fmt.Sprintf("%d", c.Verbosity))
	return flags
}

// UnwindSetFlagValue renders the per-function bound map as name:bound pairs
// joined by commas, sorted by function name for a stable flag list.
// Returns "" for an empty map, which omits the flag entirely.
func (c *Config) UnwindSetFlagValue() string {
	if len(c.UnwindSet) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.UnwindSet))
	for name := range c.UnwindSet {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s:%d", name, c.UnwindSet[name]))
	}
	return strings.Join(pairs, ",")
}

// DefineFlags composes the preprocessor define list (with -D prefixes) used by
// the compile and abstraction stages: the object-bits define, the optional
// deep-checks define, then user defines in declaration order. A user define
// restating the object-bits symbol is dropped here; Validate has already
// rejected the case where it disagrees.
func (c *Config) DefineFlags() []string {
	defines := []string{fmt.Sprintf("-D%s=%d", ObjectBitsDefine, c.ObjectBits)}
	if c.DeepChecks {
		defines = append(defines, "-D"+DeepChecksDefine)
	}
	for _, d := range c.Defines {
		if name, _, _ := strings.Cut(d, "="); name == ObjectBitsDefine {
			continue
		}
		defines = append(defines, "-D"+d)
	}
	return defines
}

// IncludeFlags composes the include-path list with -I prefixes, in
// declaration order.
func (c *Config) IncludeFlags() []string {
	includes := make([]string, 0, len(c.Includes))
	for _, dir := range c.Includes {
		includes = append(includes, "-I"+dir)
	}
	return includes
}
