// Package toolchain names the external tools the pipeline drives.
//
// The tools are collaborators specified only at their command-line
// interface: a compiler/linker producing the initial goto program, an
// instrumentation tool applying named transformations, an analysis engine,
// and a report renderer. Paths default to the standard CBMC tool names and
// can be overridden per machine with a tools.yaml file.
package toolchain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Toolchain holds the executable paths for the four external tools.
type Toolchain struct {
	// GotoCC compiles and links C sources into goto programs.
	GotoCC string `yaml:"goto_cc"`

	// GotoInstrument applies a named transformation to a goto program.
	GotoInstrument string `yaml:"goto_instrument"`

	// CBMC is the analysis engine. It reserves one non-zero exit status to
	// mean "completed, violation found" (see pipeline.ViolationStatus).
	CBMC string `yaml:"cbmc"`

	// Viewer renders the final report from the three analysis results.
	Viewer string `yaml:"viewer"`
}

// Default returns the toolchain with standard tool names, resolved through
// PATH at invocation time.
func Default() *Toolchain {
	return &Toolchain{
		GotoCC:         "goto-cc",
		GotoInstrument: "goto-instrument",
		CBMC:           "cbmc",
		Viewer:         "cbmc-viewer",
	}
}

// Load reads a tools.yaml file and overlays it on the defaults. A missing
// file is not an error: it simply yields the defaults, so proofs only carry
// a tools.yaml when a machine needs non-standard paths.
func Load(path string) (*Toolchain, error) {
	tc := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return tc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read toolchain config: %w", err)
	}
	var overlay Toolchain
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse toolchain config %s: %w", path, err)
	}
	if overlay.GotoCC != "" {
		tc.GotoCC = overlay.GotoCC
	}
	if overlay.GotoInstrument != "" {
		tc.GotoInstrument = overlay.GotoInstrument
	}
	if overlay.CBMC != "" {
		tc.CBMC = overlay.CBMC
	}
	if overlay.Viewer != "" {
		tc.Viewer = overlay.Viewer
	}
	return tc, nil
}
