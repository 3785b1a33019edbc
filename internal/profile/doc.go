// Package profile defines the format-agnostic model of a per-game BBScript
// profile: the binary layout parameters (byte order, jump tables, value
// tags, sized or unsized instructions) and the optional name database used
// to make scripts readable.
//
// A *Profile is read-only once loaded and may be shared between concurrent
// decode and encode calls. Concrete file formats live in the hcl and yaml
// packages, which implement Loader.
package profile
