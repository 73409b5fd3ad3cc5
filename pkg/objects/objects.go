// Package objects defines the seven managed resource kinds as plugin
// instances of the generic reconciliation pipeline. Each kind contributes
// its validation rules, identity resolution, desired attribute set and
// comparator table; the pipeline itself lives in pkg/reconciler.
package objects

import (
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

func setString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setList(m map[string]any, key string, value []string) {
	if len(value) > 0 {
		m[key] = value
	}
}

func setInt(m map[string]any, key string, value *int) {
	if value != nil {
		m[key] = *value
	}
}

func setBool(m map[string]any, key string, value *bool) {
	if value != nil {
		m[key] = *value
	}
}

// baseAttrs starts an attribute map with the identity fields every kind
// shares: name plus whichever container scope is set.
func baseAttrs(name, folder, snippet, device string) map[string]any {
	m := map[string]any{"name": name}
	setString(m, "folder", folder)
	setString(m, "snippet", snippet)
	setString(m, "device", device)
	return m
}

func identity(kind types.ResourceKind, name, folder, snippet, device string) (types.Identity, error) {
	container, err := validate.ResolveContainer(folder, snippet, device)
	if err != nil {
		return types.Identity{}, err
	}
	return types.Identity{Kind: kind, Name: name, Container: container}, nil
}

// validateCommon runs the checks shared by every kind: non-empty name and
// exactly one container scope.
func validateCommon(name, folder, snippet, device string) error {
	if err := validate.NonEmptyName(name); err != nil {
		return err
	}
	_, err := validate.ResolveContainer(folder, snippet, device)
	return err
}
