// Package pipeline orchestrates the batch flow: media discovery, probing
// into a catalog, name-based pairing, plan construction, scheduled
// execution, and summary reporting. Watch mode keeps the same flow alive
// against a filesystem watcher.
package pipeline
