// Package hcl loads table and field metadata from HCL manifests into a
// datastore.Store.
package hcl
