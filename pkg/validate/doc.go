// Package validate implements the mutual-exclusion and required-field checks
// that run before any backend traffic, including container resolution across
// folder, snippet, and device scopes.
package validate
