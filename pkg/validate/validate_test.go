package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdot65/scmsync/pkg/types"
)

// TestExactlyOne tests the shared mutual-exclusion validator
func TestExactlyOne(t *testing.T) {
	tests := []struct {
		name    string
		fields  []Field
		wantErr bool
	}{
		{
			name:   "single field set",
			fields: []Field{{Name: "a", Set: true}, {Name: "b", Set: false}},
		},
		{
			name:    "no field set",
			fields:  []Field{{Name: "a", Set: false}, {Name: "b", Set: false}},
			wantErr: true,
		},
		{
			name:    "two fields set",
			fields:  []Field{{Name: "a", Set: true}, {Name: "b", Set: true}},
			wantErr: true,
		},
		{
			name:    "all of four set",
			fields:  []Field{{Name: "a", Set: true}, {Name: "b", Set: true}, {Name: "c", Set: true}, {Name: "d", Set: true}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExactlyOne("test rule", tt.fields...)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "test rule", verr.Rule)
		})
	}
}

// TestAtMostOne tests the relaxed variant used under absent intent
func TestAtMostOne(t *testing.T) {
	assert.NoError(t, AtMostOne("rule", Field{Name: "a", Set: false}))
	assert.NoError(t, AtMostOne("rule", Field{Name: "a", Set: true}, Field{Name: "b", Set: false}))
	assert.Error(t, AtMostOne("rule", Field{Name: "a", Set: true}, Field{Name: "b", Set: true}))
}

// TestResolveContainer tests container scope resolution
func TestResolveContainer(t *testing.T) {
	tests := []struct {
		name                    string
		folder, snippet, device string
		want                    types.ContainerRef
		wantErr                 bool
	}{
		{
			name:   "folder",
			folder: "Texas",
			want:   types.ContainerRef{Scope: types.ScopeFolder, Name: "Texas"},
		},
		{
			name:    "snippet",
			snippet: "branch-baseline",
			want:    types.ContainerRef{Scope: types.ScopeSnippet, Name: "branch-baseline"},
		},
		{
			name:   "device",
			device: "fw-edge-01",
			want:   types.ContainerRef{Scope: types.ScopeDevice, Name: "fw-edge-01"},
		},
		{
			name:    "none set",
			wantErr: true,
		},
		{
			name:    "two set",
			folder:  "Texas",
			snippet: "branch-baseline",
			wantErr: true,
		},
		{
			name:    "all three set",
			folder:  "Texas",
			snippet: "branch-baseline",
			device:  "fw-edge-01",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ResolveContainer(tt.folder, tt.snippet, tt.device)
			if tt.wantErr {
				var ambiguous *AmbiguousContainerError
				require.ErrorAs(t, err, &ambiguous)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref)
		})
	}
}

// TestRequired tests required-field enforcement
func TestRequired(t *testing.T) {
	assert.NoError(t, Required("service", "protocol", true))

	err := Required("service", "protocol", false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "protocol is required")
}

// TestNonEmptyName tests the shared name invariant
func TestNonEmptyName(t *testing.T) {
	assert.NoError(t, NonEmptyName("web1"))
	assert.Error(t, NonEmptyName(""))
}
