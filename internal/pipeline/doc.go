// Package pipeline implements the staged transformation of a C harness
// into a verification-ready goto program, and the runner that drives each
// external tool invocation.
//
// ARCHITECTURE:
//
// Data-Driven Stage Table:
// The pipeline is an ordered table of eight stage descriptors (indices
// 0..7). Each descriptor declares its name, an enablement predicate over
// the proof configuration, the extra source inputs it reads, and the
// command to run. The walker is a single loop over the table; there are no
// per-stage conditionals outside it.
//
// Artifact Chain:
// Artifact N's only legitimate input is artifact N-1 (or the original
// sources for N=0) plus the immutable configuration. A later stage never
// mutates an earlier artifact; the final artifact is a copy of artifact 7
// under the canonical <entry>.goto name. Every artifact and log carries the
// entry-point name as a prefix, so distinct proofs never collide even when
// a scheduler runs them in parallel.
//
// Disabled stages degrade to a copy: the input artifact is copied to the
// output name unchanged and an explanatory line is written to the stage's
// log, preserving the one-log-per-artifact invariant without invoking any
// external tool.
//
// Exit Classification:
// Every invocation outcome is a tagged variant (Success, ViolationFound,
// Failure), never a raw numeric comparison at call sites. Transformation
// stages run under the strict policy (any non-zero status aborts the
// build). Analysis invocations run under the tolerant policy: the engine's
// reserved "completed, violation found" status is a success for
// pipeline-continuation purposes, so trace capture and reporting still run.
package pipeline
