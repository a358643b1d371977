// Package registry holds the handler plugins compiled into the binary.
//
// Plugins are contributed by modules at startup through Install. Each plugin
// is identified by its category and id; registering the same pair twice is a
// programming error and panics. The registry doubles as the discoverer of
// plugin definitions for the discovery cache.
package registry
