// Package chain parses and validates command chains.
//
// A command chain is a single line of pipe-delimited stages, for example:
//
//	Generate 3 640 480 | Blur 3 3 | RandomCircles 10 20 | Output demo
//
// Each stage is a whitespace-separated list of tokens where the first token is the stage name. The chain must start
// with exactly one generating stage (Generate or Input) and every following stage must be a known processing stage
// with the exact number and type of arguments it expects.
//
// Validation is all-or-nothing: Validate either returns a complete, read-only Plan or a *ValidationError naming the
// offending stage. Unknown stage names never make it past validation, so executors can dispatch on Tag without a
// fallback path.
package chain
