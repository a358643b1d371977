// Package invalidation propagates cache tag invalidations between processes
// over socket.io.
//
// A Subscriber listens on an event (DefaultEvent unless configured) and
// invalidates the tags carried by each message on a local cache. A Publisher
// emits such a message. The payload is a list of tags, a single tag string or
// an object of the form {"tags": [...]}. Tags containing glob meta characters
// are treated as patterns when the target cache supports them.
package invalidation
