// Package media defines the immutable asset types (video, audio), the
// rational frame-rate arithmetic shared by every timing computation, and
// the lock-guarded in-memory catalog that owns probed assets.
//
// Assets are values: once probed and registered they are never mutated.
// The catalog is safe for concurrent reads; registration and eviction are
// serialized behind a single RWMutex. There is no package-level singleton —
// a Catalog instance is constructed at startup and passed by reference.
package media
