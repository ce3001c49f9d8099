// Package pairing matches audio assets to videos by normalized-name
// heuristics, and resolves output paths for mixed files including duplicate
// collision handling.
//
// Resolution is total and pure: it performs no I/O and no randomness, never
// fails, and returns unmatched audio explicitly for manual assignment.
package pairing
