// Package types holds the shared vocabulary of the module: resource kinds,
// target states, container references, and the identity and remote-object
// shapes that flow between the reconciler and the backend session.
package types
