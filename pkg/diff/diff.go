package diff

// RuleKind selects the typed equality rule applied to a field.
type RuleKind int

const (
	// Scalar compares on plain equality when the desired value is set.
	Scalar RuleKind = iota
	// StringSet compares membership lists as sets; order never matters.
	StringSet
	// Nested compares structured values key by key, with per-variant
	// defaults filled into the desired side before comparison.
	Nested
)

// Rule is one entry of a per-resource-kind comparator table.
type Rule struct {
	Kind RuleKind
	// Defaults mirrors the nesting of the field's value. A default leaf is
	// filled into the desired value only when its enclosing structure is
	// present; an absent structure stays absent (absence means "leave as is").
	Defaults map[string]any
}

// Rules maps field identifiers to their equality rule. Fields not listed are
// never compared; identity fields (name, container) are resolved upstream.
type Rules map[string]Rule

// ExclusionGroup names attribute paths of which at most one may be set on an
// object at a time. Nested variant keys use dotted paths ("protocol.tcp").
type ExclusionGroup []string

// ChangeSet holds the desired values of fields that differ from the remote
// object. An empty ChangeSet means no mutation is needed.
type ChangeSet map[string]any

func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// Fields returns the names of the differing fields.
func (c ChangeSet) Fields() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	return out
}

// Compare evaluates the comparator table against the desired attributes and
// the remote object's attributes, producing the minimal change-set. A field
// absent from desired is excluded from comparison entirely.
func Compare(desired, remote map[string]any, rules Rules) ChangeSet {
	cs := ChangeSet{}
	for field, rule := range rules {
		dv, ok := desired[field]
		if !ok {
			continue
		}
		rv, exists := remote[field]
		switch rule.Kind {
		case StringSet:
			if !exists || !setEqual(toStrings(dv), toStrings(rv)) {
				cs[field] = dv
			}
		case Nested:
			dm, dok := dv.(map[string]any)
			rm, rok := rv.(map[string]any)
			if dok {
				dm = cloneMap(dm)
				fillDefaults(dm, rule.Defaults)
				dv = dm
			}
			if !exists || !dok || !rok || !nestedEqual(dm, rm) {
				cs[field] = dv
			}
		default:
			if !exists || !scalarEqual(dv, rv) {
				cs[field] = dv
			}
		}
	}
	return cs
}

// fillDefaults merges default leaves into m. A default is applied only where
// its enclosing structure already exists in m; missing structures are left
// missing so that their remote value is preserved.
func fillDefaults(m, defaults map[string]any) {
	for k, dv := range defaults {
		if sub, ok := dv.(map[string]any); ok {
			if msub, ok := m[k].(map[string]any); ok {
				msub = cloneMap(msub)
				fillDefaults(msub, sub)
				m[k] = msub
			}
			continue
		}
		if _, ok := m[k]; !ok {
			m[k] = dv
		}
	}
}

// nestedEqual compares the keys present in desired against remote. Keys the
// desired side omits are skipped, matching the top-level absence rule.
func nestedEqual(desired, remote map[string]any) bool {
	for k, dv := range desired {
		rv, ok := remote[k]
		if !ok {
			return false
		}
		dm, dok := dv.(map[string]any)
		rm, rok := rv.(map[string]any)
		if dok || rok {
			if !dok || !rok || !nestedEqual(dm, rm) {
				return false
			}
			continue
		}
		if ds, ok := asStringSlice(dv); ok {
			rs, rok := asStringSlice(rv)
			if !rok || !setEqual(ds, rs) {
				return false
			}
			continue
		}
		if !scalarEqual(dv, rv) {
			return false
		}
	}
	return true
}

// scalarEqual compares two scalar values, tolerating the numeric widening a
// JSON round trip introduces (int vs float64).
func scalarEqual(a, b any) bool {
	if na, ok := toFloat(a); ok {
		nb, ok := toFloat(b)
		return ok && na == nb
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// setEqual compares after deduplication; duplicates carry no meaning in
// membership lists.
func setEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, s := range a {
		as[s] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, s := range b {
		bs[s] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for s := range as {
		if _, ok := bs[s]; !ok {
			return false
		}
	}
	return true
}

// toStrings accepts both []string (in-process specs) and []any (values read
// back through a JSON codec).
func toStrings(v any) []string {
	s, _ := asStringSlice(v)
	return s
}

func asStringSlice(v any) ([]string, bool) {
	switch vv := v.(type) {
	case []string:
		return vv, true
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
