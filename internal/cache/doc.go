// Package cache implements the disk-backed key/value store. Every live key owns
// a pair of files under the store root: <key>.data with the (optionally
// encrypted) payload and <key>.config with JSON metadata (type tag, save time,
// validity window). An in-memory index is filled lazily from config files, and
// running byte/entry totals are maintained with atomic counters so callers can
// read them without touching the filesystem. Bulk clears and the startup scan
// run on background goroutines and never block the caller.
package cache
