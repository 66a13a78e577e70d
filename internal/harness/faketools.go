package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/proofrig/proofrig/internal/toolchain"
)

// Shell stand-ins for the external tools. The compiler fake concatenates
// its source arguments into the output artifact, so the initial artifact's
// content is a pure function of the sources and the fakes preserve the
// "stage output is a function of its inputs" invariant the cache tests
// rely on. The instrumentation fake copies its input artifact unchanged,
// which makes enabled-but-identity stages indistinguishable from skips at
// the byte level, exactly like a transformation with nothing to do.

const gotoCCScript = `#!/bin/sh
# fake goto-cc: concatenate source arguments into the output artifact
out=""
prev=""
for a in "$@"; do
	if [ "$prev" = "-o" ]; then out="$a"; fi
	prev="$a"
done
if [ -f "$(dirname "$0")/goto-cc.out" ]; then cat "$(dirname "$0")/goto-cc.out"; fi
: > "$out"
skip=0
for a in "$@"; do
	if [ "$skip" = "1" ]; then skip=0; continue; fi
	case "$a" in
	-o|--function) skip=1 ;;
	--export-function-local-symbols|-D*|-I*) ;;
	*) cat "$a" >> "$out" ;;
	esac
done
exit %d
`

const gotoInstrumentScript = `#!/bin/sh
# fake goto-instrument: copy the input artifact to the output unchanged
prev=""
penult=""
for a in "$@"; do
	penult="$prev"
	prev="$a"
done
if [ -f "$(dirname "$0")/goto-instrument.out" ]; then cat "$(dirname "$0")/goto-instrument.out"; fi
cp "$penult" "$prev"
exit %d
`

const cbmcScript = `#!/bin/sh
# fake cbmc: emit the configured result text and exit status
if [ -f "$(dirname "$0")/cbmc.out" ]; then cat "$(dirname "$0")/cbmc.out"; fi
exit %d
`

const viewerScript = `#!/bin/sh
# fake cbmc-viewer: create the report directory
prev=""
for a in "$@"; do
	if [ "$prev" = "--reportdir" ]; then mkdir -p "$a"; fi
	prev="$a"
done
if [ -f "$(dirname "$0")/viewer.out" ]; then cat "$(dirname "$0")/viewer.out"; fi
exit %d
`

// writeFakeTools materializes the fake tool scripts into dir per the
// scenario's tool behaviors and returns a toolchain pointing at them.
func writeFakeTools(dir string, tools map[string]ToolBehavior) (*toolchain.Toolchain, error) {
	scripts := map[string]string{
		"goto-cc":         gotoCCScript,
		"goto-instrument": gotoInstrumentScript,
		"cbmc":            cbmcScript,
		"viewer":          viewerScript,
	}
	for name, script := range scripts {
		behavior := tools[name]
		path := filepath.Join(dir, name)
		body := fmt.Sprintf(script, behavior.ExitStatus)
		if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
			return nil, fmt.Errorf("write fake %s: %w", name, err)
		}
		if behavior.Output != "" {
			outPath := filepath.Join(dir, name+".out")
			if err := os.WriteFile(outPath, []byte(behavior.Output), 0o644); err != nil {
				return nil, fmt.Errorf("write fake %s output: %w", name, err)
			}
		}
	}
	return &toolchain.Toolchain{
		GotoCC:         filepath.Join(dir, "goto-cc"),
		GotoInstrument: filepath.Join(dir, "goto-instrument"),
		CBMC:           filepath.Join(dir, "cbmc"),
		Viewer:         filepath.Join(dir, "viewer"),
	}, nil
}
