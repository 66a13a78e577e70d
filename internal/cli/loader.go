package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/proofrig/proofrig/internal/proof"
)

// LoadProof loads the proof configuration from the CUE package in dir.
//
// The directory's .cue files are loaded as one instance, so defaults and
// per-proof overrides unify the CUE way rather than by file inclusion
// order. The configuration lives under the top-level "proof" field:
//
//	proof: {
//		entry: "foo"
//		sources: ["../src/foo.c"]
//		unwindset: { memcpy_loop: 2 }
//	}
//
// Defaults are applied and the result validated before anything runs; a
// bad configuration never leaves partial artifacts behind.
func LoadProof(dir string) (*proof.Config, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("proof directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("access proof directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve proof directory: %w", err)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: abs})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instance in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("load proof config: %w", inst.Err)
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("build proof config: %w", err)
	}

	proofVal := value.LookupPath(cue.ParsePath("proof"))
	if !proofVal.Exists() {
		return nil, fmt.Errorf("no \"proof\" definition in %s", dir)
	}

	var cfg proof.Config
	if err := proofVal.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode proof config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
