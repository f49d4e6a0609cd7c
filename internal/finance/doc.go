// Package finance turns transaction and budget snapshots into derived views:
// monthly trends, category breakdowns, budget progress and month summaries.
//
// Every function here is pure. Inputs are never mutated, nothing is cached,
// and calling twice with the same snapshot yields the same result, so callers
// may run these concurrently over independent snapshots. Missing reference
// data degrades to placeholders or zero values instead of errors.
package finance
