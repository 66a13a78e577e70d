package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace owns the on-disk layout for one entry point's build: numbered
// artifacts under gotos/, one log per invocation under logs/, and the
// rendered report under report/. Every file name carries the entry-point
// name as a prefix, so two proofs sharing a directory tree never corrupt
// each other's artifacts. Concurrent pipelines must still not share one
// workspace root; directory-per-proof isolation is the concurrency model.
type Workspace struct {
	Root  string
	Entry string
}

// NewWorkspace creates a workspace rooted at the proof directory for the
// given entry point. No directories are created until EnsureDirs.
func NewWorkspace(root, entry string) *Workspace {
	return &Workspace{Root: root, Entry: entry}
}

func (w *Workspace) GotoDir() string   { return filepath.Join(w.Root, "gotos") }
func (w *Workspace) LogDir() string    { return filepath.Join(w.Root, "logs") }
func (w *Workspace) ReportDir() string { return filepath.Join(w.Root, "report") }

// CachePath names the dependency-cache database for this workspace.
func (w *Workspace) CachePath() string {
	return filepath.Join(w.Root, ".depcache.db")
}

// Artifact names the numbered intermediate representation for a stage
// index.
func (w *Workspace) Artifact(stage int) string {
	return filepath.Join(w.GotoDir(), fmt.Sprintf("%s_stage%d.goto", w.Entry, stage))
}

// FinalArtifact names the canonical final goto program, a copy of the last
// stage's output.
func (w *Workspace) FinalArtifact() string {
	return filepath.Join(w.GotoDir(), w.Entry+".goto")
}

// StageLog names the log for an artifact-producing invocation.
func (w *Workspace) StageLog(stage int, name string) string {
	return filepath.Join(w.LogDir(), fmt.Sprintf("%s_stage%d_%s.txt", w.Entry, stage, name))
}

// Result files for the three analyses. Each doubles as the invocation's
// log: the analysis engine writes its findings to the standard streams, so
// the teed log is the structured result the report renderer consumes.
func (w *Workspace) CheckResult() string {
	return filepath.Join(w.LogDir(), w.Entry+"_cbmc.txt")
}

func (w *Workspace) PropertyResult() string {
	return filepath.Join(w.LogDir(), w.Entry+"_property.txt")
}

func (w *Workspace) CoverageResult() string {
	return filepath.Join(w.LogDir(), w.Entry+"_coverage.txt")
}

// ReportLog names the log for the report-renderer invocation.
func (w *Workspace) ReportLog() string {
	return filepath.Join(w.LogDir(), w.Entry+"_report.txt")
}

// EnsureDirs creates the artifact and log directories.
func (w *Workspace) EnsureDirs() error {
	for _, dir := range []string{w.GotoDir(), w.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Clean removes artifacts, logs, and the dependency cache. The log
// directory itself survives so an ordinary clean keeps a stable place for
// the next build's logs.
func (w *Workspace) Clean() error {
	if err := os.RemoveAll(w.GotoDir()); err != nil {
		return fmt.Errorf("clean artifacts: %w", err)
	}
	if err := os.Remove(w.CachePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clean cache: %w", err)
	}
	entries, err := os.ReadDir(w.LogDir())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clean logs: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.LogDir(), entry.Name())); err != nil {
			return fmt.Errorf("clean logs: %w", err)
		}
	}
	return nil
}

// VeryClean removes everything Clean removes plus the rendered report and
// the log directory itself.
func (w *Workspace) VeryClean() error {
	if err := w.Clean(); err != nil {
		return err
	}
	if err := os.RemoveAll(w.ReportDir()); err != nil {
		return fmt.Errorf("clean report: %w", err)
	}
	if err := os.RemoveAll(w.LogDir()); err != nil {
		return fmt.Errorf("clean log directory: %w", err)
	}
	return nil
}
