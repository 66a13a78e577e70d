package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofrig/proofrig/internal/proof"
)

func writeProofCUE(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proof.cue"), []byte(content), 0o644))
}

func TestLoadProof_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

proof: {
	entry: "foo"
}
`)

	cfg, err := LoadProof(dir)
	require.NoError(t, err)
	assert.Equal(t, "foo", cfg.Entry)
	assert.Equal(t, "foo_harness.c", cfg.Harness)
	assert.Equal(t, proof.DefaultUnwind, cfg.Unwind)
	assert.Equal(t, proof.DefaultObjectBits, cfg.ObjectBits)
	assert.Equal(t, proof.DefaultVerbosity, cfg.Verbosity)
	assert.Equal(t, []string{"abort"}, cfg.RemoveFunctionBody)
}

func TestLoadProof_FullConfig(t *testing.T) {
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

proof: {
	entry:                "bar"
	sources: ["../src/bar.c"]
	remove_function_body: ["abort", "never_returns"]
	abstractions: ["stubs/bar_stub.c"]
	unwind:     2
	unwindset: {memcpy: 2, strlen: 3}
	object_bits: 8
	deep_checks: true
	simplify:    true
	includes: ["../include"]
	defines: ["FOO=1"]
}
`)

	cfg, err := LoadProof(dir)
	require.NoError(t, err)
	assert.Equal(t, "bar", cfg.Entry)
	assert.Equal(t, []string{"../src/bar.c"}, cfg.Sources)
	assert.Equal(t, []string{"abort", "never_returns"}, cfg.RemoveFunctionBody)
	assert.Equal(t, map[string]int{"memcpy": 2, "strlen": 3}, cfg.UnwindSet)
	assert.Equal(t, 8, cfg.ObjectBits)
	assert.True(t, cfg.DeepChecks)
	assert.True(t, cfg.Simplify)
}

func TestLoadProof_ExplicitEmptyRemovalList(t *testing.T) {
	// An empty list is a deliberate choice and must not be re-seeded with
	// the default abort stripping.
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

proof: {
	entry: "foo"
	remove_function_body: []
}
`)

	cfg, err := LoadProof(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.RemoveFunctionBody)
	assert.Empty(t, cfg.RemoveFunctionBody)
}

func TestLoadProof_UnifiesAcrossFiles(t *testing.T) {
	// Shared defaults and the per-proof override live in separate files of
	// the same CUE package and unify into one configuration.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defaults.cue"), []byte(`package proof

proof: object_bits: 8
`), 0o644))
	writeProofCUE(t, dir, `package proof

proof: entry: "foo"
`)

	cfg, err := LoadProof(dir)
	require.NoError(t, err)
	assert.Equal(t, "foo", cfg.Entry)
	assert.Equal(t, 8, cfg.ObjectBits)
}

func TestLoadProof_MissingDir(t *testing.T) {
	_, err := LoadProof(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadProof_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "proof.cue")
	require.NoError(t, os.WriteFile(file, []byte("proof: entry: \"x\"\n"), 0o644))

	_, err := LoadProof(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestLoadProof_MissingProofField(t *testing.T) {
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

other: {entry: "foo"}
`)

	_, err := LoadProof(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"proof"`)
}

func TestLoadProof_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

proof: {
	entry:  "foo"
	unwind: -1
}
`)

	_, err := LoadProof(dir)
	require.Error(t, err)
	var cfgErr *proof.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "unwind", cfgErr.Field)
}

func TestLoadProof_ConflictingObjectBitsDefine(t *testing.T) {
	dir := t.TempDir()
	writeProofCUE(t, dir, `package proof

proof: {
	entry:       "foo"
	object_bits: 8
	defines: ["CBMC_OBJECT_BITS=6"]
}
`)

	_, err := LoadProof(dir)
	require.Error(t, err)
	var cfgErr *proof.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "defines", cfgErr.Field)
}
