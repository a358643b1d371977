// Package definition holds the value types shared by every layer of the
// handler resolver: handler categories, lookup items and plugin definitions.
//
// A Definition is an immutable attribute map whose values are cty.Values, the
// same representation the HCL manifests decode into. Every "mutation" returns
// a fresh Definition, so a definition can be handed to concurrent resolutions
// without aliasing hazards.
package definition
