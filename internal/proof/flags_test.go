package proof

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flagGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestEngineFlags_DefaultGolden(t *testing.T) {
	cfg := (&Config{Entry: "foo"}).ApplyDefaults()
	flags := cfg.EngineFlags()
	flagGoldie(t).Assert(t, "flags_default", []byte(strings.Join(flags, "\n")+"\n"))
}

func TestEngineFlags_UnwindSetComposite(t *testing.T) {
	cfg := (&Config{
		Entry:     "foo",
		UnwindSet: map[string]int{"strlen": 3, "memcpy": 2},
	}).ApplyDefaults()

	flags := cfg.EngineFlags()
	idx := indexOf(flags, "--unwindset")
	require.GreaterOrEqual(t, idx, 0, "unwindset flag must be present")
	// One composite flag, pairs sorted by function name.
	assert.Equal(t, "memcpy:2,strlen:3", flags[idx+1])
	assert.Equal(t, 1, count(flags, "--unwindset"))
}

func TestEngineFlags_EmptyUnwindSetOmitted(t *testing.T) {
	cfg := (&Config{Entry: "foo"}).ApplyDefaults()
	assert.NotContains(t, cfg.EngineFlags(), "--unwindset")
}

func TestEngineFlags_ExactlyOneObjectBitsFlag(t *testing.T) {
	cfg := (&Config{Entry: "foo", ObjectBits: 8}).ApplyDefaults()
	flags := cfg.EngineFlags()

	require.Equal(t, 1, count(flags, "--object-bits"))
	idx := indexOf(flags, "--object-bits")
	assert.Equal(t, "8", flags[idx+1])

	// The engine flag and the compile-time define always agree: both
	// derive from the same configuration field.
	assert.Contains(t, cfg.DefineFlags(), "-DCBMC_OBJECT_BITS=8")
}

func TestEngineFlags_Deterministic(t *testing.T) {
	cfg := (&Config{
		Entry:     "foo",
		UnwindSet: map[string]int{"a": 1, "b": 2, "c": 3, "d": 4},
	}).ApplyDefaults()

	first := cfg.EngineFlags()
	for i := 0; i < 16; i++ {
		assert.Equal(t, first, cfg.EngineFlags(), "flag order must be stable across calls")
	}
}

func TestCoverageFlags_OmitUnwindingAssertions(t *testing.T) {
	cfg := (&Config{Entry: "foo", UnwindSet: map[string]int{"memcpy": 2}}).ApplyDefaults()

	engine := cfg.EngineFlags()
	coverage := cfg.CoverageFlags()

	assert.Contains(t, engine, "--unwinding-assertions")
	assert.NotContains(t, coverage, "--unwinding-assertions")

	// Removing the one flag is the only difference.
	var trimmed []string
	for _, f := range engine {
		if f != "--unwinding-assertions" {
			trimmed = append(trimmed, f)
		}
	}
	assert.Equal(t, trimmed, coverage)
}

func TestDefineFlags_DeepChecks(t *testing.T) {
	off := (&Config{Entry: "foo"}).ApplyDefaults()
	assert.NotContains(t, off.DefineFlags(), "-DPROOF_DEEP_CHECKS")

	on := (&Config{Entry: "foo", DeepChecks: true}).ApplyDefaults()
	assert.Contains(t, on.DefineFlags(), "-DPROOF_DEEP_CHECKS")

	// Deep checks are a define only, never an engine flag.
	for _, f := range on.EngineFlags() {
		assert.NotContains(t, f, "DEEP_CHECKS")
	}
}

func TestDefineFlags_DropsRestatedObjectBits(t *testing.T) {
	cfg := (&Config{
		Entry:   "foo",
		Defines: []string{"CBMC_OBJECT_BITS=6", "FOO=1"},
	}).ApplyDefaults()
	require.NoError(t, cfg.Validate())

	defines := cfg.DefineFlags()
	assert.Equal(t, []string{"-DCBMC_OBJECT_BITS=6", "-DFOO=1"}, defines)
}

func TestIncludeFlags(t *testing.T) {
	cfg := (&Config{Entry: "foo", Includes: []string{"../include", "/opt/stubs"}}).ApplyDefaults()
	assert.Equal(t, []string{"-I../include", "-I/opt/stubs"}, cfg.IncludeFlags())
}

func indexOf(flags []string, flag string) int {
	for i, f := range flags {
		if f == flag {
			return i
		}
	}
	return -1
}

func count(flags []string, flag string) int {
	n := 0
	for _, f := range flags {
		if f == flag {
			n++
		}
	}
	return n
}
