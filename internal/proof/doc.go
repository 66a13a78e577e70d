// Package proof defines the per-proof configuration and the flag composer.
//
// A Config is built exactly once per proof (from a proof.cue file plus
// schema defaults) and is treated as immutable for the duration of a build.
// Every pipeline stage and analysis invocation reads the same Config value;
// nothing mutates it mid-build.
//
// The flag composer renders the Config into the verification engine's flag
// set as a deterministic, stably ordered token list. Two renderings exist:
//
//   - EngineFlags: the full set, used by the check and property analyses.
//   - CoverageFlags: the full set minus unwinding assertions, used by the
//     coverage analysis (coverage measurement must not itself be rejected
//     by an unwinding-assertion failure).
//
// The object-address-bit width is consumed twice: as an engine flag and as
// a preprocessor define, so code compiled for analysis and the engine agree
// on addressable-object cardinality. Validate rejects configurations where
// a user-supplied define would diverge from the engine flag.
package proof
