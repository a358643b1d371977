// Package inmemorycache provides a thread-safe, in-memory implementation of
// the cache.Backend interface.
//
// # Characteristics
//
//   - **Process-local:** Entries live as long as the Backend value does
//   - **Tagged:** Every entry may carry tags, and InvalidateTags drops all
//     entries sharing a tag in one call
//   - **Pattern invalidation:** InvalidateMatching accepts a glob such as
//     "plugins:*" and invalidates every known tag it matches
//   - **Optional TTL:** WithTTL bounds the lifetime of every entry
//
// # Concurrency Model
//
// A single RWMutex guards both the entries and the tag index. Reads of the
// plugin definitions vastly outnumber writes, which happen only on a cache
// miss or an invalidation, so readers rarely wait.
//
// Expired entries are treated as misses on read and removed on the next write
// touching the same key.
package inmemorycache
