// Package engine is the narrow seam between the probe and a regex facility.
//
// An Engine compiles a pattern into a Matcher; a Matcher finds the leftmost
// match anywhere in an input and reports byte spans for the whole match and
// for every declared capture group. Everything above this package works only
// with spans, so backends can be swapped without touching result assembly.
//
// Backends:
//
//	go       standard library regexp (RE2 syntax, linear time)
//	re2      github.com/wasilibs/go-re2 (C++ RE2 via WebAssembly, linear time)
//	regexp2  github.com/dlclark/regexp2 (backtracking, NOT linear time)
//
// Backtracking backends report LinearTime() == false and must run under a
// match deadline. Running one is an explicit precondition of the caller.
package engine
