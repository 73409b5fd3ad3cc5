package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCompareScalars tests scalar field comparison
func TestCompareScalars(t *testing.T) {
	rules := Rules{
		"description": {Kind: Scalar},
		"fqdn":        {Kind: Scalar},
	}

	tests := []struct {
		name    string
		desired map[string]any
		remote  map[string]any
		want    []string
	}{
		{
			name:    "equal values produce no change",
			desired: map[string]any{"description": "web tier"},
			remote:  map[string]any{"description": "web tier"},
			want:    nil,
		},
		{
			name:    "differing value flagged",
			desired: map[string]any{"description": "web tier"},
			remote:  map[string]any{"description": "db tier"},
			want:    []string{"description"},
		},
		{
			name:    "absent desired field excluded from comparison",
			desired: map[string]any{},
			remote:  map[string]any{"description": "anything", "fqdn": "a.example.com"},
			want:    nil,
		},
		{
			name:    "field missing remotely flagged",
			desired: map[string]any{"fqdn": "a.example.com"},
			remote:  map[string]any{},
			want:    []string{"fqdn"},
		},
		{
			name:    "unlisted fields ignored",
			desired: map[string]any{"name": "a1", "folder": "Texas"},
			remote:  map[string]any{"name": "other"},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Compare(tt.desired, tt.remote, rules)
			assert.ElementsMatch(t, tt.want, cs.Fields())
		})
	}
}

// TestCompareNumericWidening tests equality across a JSON round trip, where
// integers come back as float64
func TestCompareNumericWidening(t *testing.T) {
	rules := Rules{"default_timeout": {Kind: Scalar}}

	cs := Compare(
		map[string]any{"default_timeout": 300},
		map[string]any{"default_timeout": float64(300)},
		rules,
	)
	assert.True(t, cs.Empty())

	cs = Compare(
		map[string]any{"default_timeout": 300},
		map[string]any{"default_timeout": float64(600)},
		rules,
	)
	assert.Equal(t, []string{"default_timeout"}, cs.Fields())
}

// TestCompareStringSets tests set semantics for membership lists
func TestCompareStringSets(t *testing.T) {
	rules := Rules{"members": {Kind: StringSet}}

	tests := []struct {
		name    string
		desired any
		remote  any
		changed bool
	}{
		{
			name:    "reordered members are equal",
			desired: []string{"a", "b", "c"},
			remote:  []string{"c", "a", "b"},
			changed: false,
		},
		{
			name:    "remote decoded as []any still equal",
			desired: []string{"a", "b"},
			remote:  []any{"b", "a"},
			changed: false,
		},
		{
			name:    "added member flagged",
			desired: []string{"a", "b", "c"},
			remote:  []string{"a", "b"},
			changed: true,
		},
		{
			name:    "removed member flagged",
			desired: []string{"a"},
			remote:  []string{"a", "b"},
			changed: true,
		},
		{
			name:    "duplicates carry no meaning",
			desired: []string{"a", "a", "b"},
			remote:  []string{"b", "a"},
			changed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Compare(
				map[string]any{"members": tt.desired},
				map[string]any{"members": tt.remote},
				rules,
			)
			assert.Equal(t, tt.changed, !cs.Empty())
		})
	}
}

var protocolRules = Rules{
	"protocol": {
		Kind: Nested,
		Defaults: map[string]any{
			"tcp": map[string]any{
				"override": map[string]any{
					"timeout":           3600,
					"halfclose_timeout": 120,
					"timewait_timeout":  15,
				},
			},
			"udp": map[string]any{
				"override": map[string]any{"timeout": 30},
			},
		},
	},
}

// TestCompareNestedDefaults tests default filling on protocol overrides
func TestCompareNestedDefaults(t *testing.T) {
	t.Run("partial override filled with defaults matches remote defaults", func(t *testing.T) {
		desired := map[string]any{
			"protocol": map[string]any{
				"tcp": map[string]any{
					"port":     "80,443",
					"override": map[string]any{},
				},
			},
		}
		remote := map[string]any{
			"protocol": map[string]any{
				"tcp": map[string]any{
					"port": "80,443",
					"override": map[string]any{
						"timeout":           float64(3600),
						"halfclose_timeout": float64(120),
						"timewait_timeout":  float64(15),
					},
				},
			},
		}
		cs := Compare(desired, remote, protocolRules)
		assert.True(t, cs.Empty())
	})

	t.Run("absent override block excluded from comparison", func(t *testing.T) {
		desired := map[string]any{
			"protocol": map[string]any{
				"tcp": map[string]any{"port": "80"},
			},
		}
		remote := map[string]any{
			"protocol": map[string]any{
				"tcp": map[string]any{
					"port":     "80",
					"override": map[string]any{"timeout": float64(3600)},
				},
			},
		}
		cs := Compare(desired, remote, protocolRules)
		assert.True(t, cs.Empty())
	})

	t.Run("explicit override beats default", func(t *testing.T) {
		desired := map[string]any{
			"protocol": map[string]any{
				"udp": map[string]any{
					"port":     "53",
					"override": map[string]any{"timeout": 60},
				},
			},
		}
		remote := map[string]any{
			"protocol": map[string]any{
				"udp": map[string]any{
					"port":     "53",
					"override": map[string]any{"timeout": float64(30)},
				},
			},
		}
		cs := Compare(desired, remote, protocolRules)
		assert.False(t, cs.Empty())
	})

	t.Run("port change flagged", func(t *testing.T) {
		desired := map[string]any{
			"protocol": map[string]any{
				"udp": map[string]any{"port": "53,5353"},
			},
		}
		remote := map[string]any{
			"protocol": map[string]any{
				"udp": map[string]any{"port": "53"},
			},
		}
		cs := Compare(desired, remote, protocolRules)
		assert.Equal(t, []string{"protocol"}, cs.Fields())
	})

	t.Run("protocol variant change flagged", func(t *testing.T) {
		desired := map[string]any{
			"protocol": map[string]any{
				"tcp": map[string]any{"port": "53"},
			},
		}
		remote := map[string]any{
			"protocol": map[string]any{
				"udp": map[string]any{"port": "53"},
			},
		}
		cs := Compare(desired, remote, protocolRules)
		assert.False(t, cs.Empty())
	})
}

// TestCompareDoesNotMutateInputs tests that default filling copies before
// writing
func TestCompareDoesNotMutateInputs(t *testing.T) {
	override := map[string]any{}
	desired := map[string]any{
		"protocol": map[string]any{
			"tcp": map[string]any{"port": "80", "override": override},
		},
	}
	remote := map[string]any{
		"protocol": map[string]any{
			"tcp": map[string]any{"port": "80"},
		},
	}

	Compare(desired, remote, protocolRules)
	assert.Empty(t, override, "caller's override map must not be filled in place")
}
