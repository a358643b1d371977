// Package app contains the core application logic. It wires the plugin
// registry, the manifests, the definition cache and the per-category
// handler managers together, decoupled from any specific entrypoint like a
// CLI or server.
package app
