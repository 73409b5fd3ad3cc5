package validate

import (
	"fmt"
	"strings"

	"github.com/cdot65/scmsync/pkg/types"
)

// ValidationError reports a desired spec that violates a structural or
// mutual-exclusion rule. It is always raised before any backend contact.
type ValidationError struct {
	Rule   string // short identifier of the violated rule
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Rule, e.Detail)
}

// AmbiguousContainerError reports zero or multiple container scopes set on a
// resource that must live in exactly one of folder, snippet or device.
type AmbiguousContainerError struct {
	Set []string // names of the scope fields that were set
}

func (e *AmbiguousContainerError) Error() string {
	if len(e.Set) == 0 {
		return "exactly one of folder, snippet or device must be set"
	}
	return fmt.Sprintf("exactly one of folder, snippet or device must be set, got %s",
		strings.Join(e.Set, ", "))
}

// Field is a candidate in a mutual-exclusion group.
type Field struct {
	Name string
	Set  bool
}

// ExactlyOne enforces that exactly one of the candidate fields is set.
// The same check backs container resolution, address kind selection, group
// membership kind selection and protocol kind selection.
func ExactlyOne(subject string, fields ...Field) error {
	var set []string
	for _, f := range fields {
		if f.Set {
			set = append(set, f.Name)
		}
	}
	if len(set) == 1 {
		return nil
	}
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	if len(set) == 0 {
		return &ValidationError{
			Rule:   subject,
			Detail: fmt.Sprintf("one of %s is required", strings.Join(names, ", ")),
		}
	}
	return &ValidationError{
		Rule:   subject,
		Detail: fmt.Sprintf("%s are mutually exclusive, got %s", strings.Join(names, ", "), strings.Join(set, ", ")),
	}
}

// AtMostOne enforces mutual exclusivity without requiring presence; used
// when the lifecycle intent (absent) does not need the defining fields.
func AtMostOne(subject string, fields ...Field) error {
	var set []string
	for _, f := range fields {
		if f.Set {
			set = append(set, f.Name)
		}
	}
	if len(set) <= 1 {
		return nil
	}
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return &ValidationError{
		Rule:   subject,
		Detail: fmt.Sprintf("%s are mutually exclusive, got %s", strings.Join(names, ", "), strings.Join(set, ", ")),
	}
}

// Required enforces presence of a field that the given lifecycle state needs.
func Required(subject, field string, set bool) error {
	if set {
		return nil
	}
	return &ValidationError{
		Rule:   subject,
		Detail: fmt.Sprintf("%s is required", field),
	}
}

// NonEmptyName enforces the resource name invariant shared by every kind.
func NonEmptyName(name string) error {
	if name != "" {
		return nil
	}
	return &ValidationError{Rule: "name", Detail: "name must be a non-empty string"}
}

// ResolveContainer extracts the single placement context from the three
// candidate scope fields. It fails with AmbiguousContainerError when zero or
// more than one scope is set. The check is identical for all resource kinds.
func ResolveContainer(folder, snippet, device string) (types.ContainerRef, error) {
	var set []string
	if folder != "" {
		set = append(set, "folder")
	}
	if snippet != "" {
		set = append(set, "snippet")
	}
	if device != "" {
		set = append(set, "device")
	}
	if len(set) != 1 {
		return types.ContainerRef{}, &AmbiguousContainerError{Set: set}
	}
	switch set[0] {
	case "folder":
		return types.ContainerRef{Scope: types.ScopeFolder, Name: folder}, nil
	case "snippet":
		return types.ContainerRef{Scope: types.ScopeSnippet, Name: snippet}, nil
	default:
		return types.ContainerRef{Scope: types.ScopeDevice, Name: device}, nil
	}
}
