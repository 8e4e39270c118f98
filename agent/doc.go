// Package agent implements the demo dispatcher: a keyword router deriving an
// example selector from free-form message text, and a DummyAgent mapping each
// selector to a canned demonstration routine. Routines are fixed linear
// scripts of session calls interleaved with pacing delays; they carry no
// decision logic of their own.
package agent
