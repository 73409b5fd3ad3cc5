package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
)

func intp(v int) *int { return &v }

// TestServiceValidate tests protocol kind rules
func TestServiceValidate(t *testing.T) {
	tests := []struct {
		name    string
		svc     Service
		state   types.State
		wantErr bool
	}{
		{
			name:  "tcp service",
			svc:   Service{Name: "web", Protocol: &Protocol{TCP: &TCPProtocol{Port: "80,443"}}, Folder: "Texas"},
			state: types.StatePresent,
		},
		{
			name:  "udp service",
			svc:   Service{Name: "dns", Protocol: &Protocol{UDP: &UDPProtocol{Port: "53"}}, Folder: "Texas"},
			state: types.StatePresent,
		},
		{
			name:    "both protocols set",
			svc:     Service{Name: "bad", Protocol: &Protocol{TCP: &TCPProtocol{Port: "80"}, UDP: &UDPProtocol{Port: "53"}}, Folder: "Texas"},
			state:   types.StatePresent,
			wantErr: true,
		},
		{
			name:    "neither protocol set inside block",
			svc:     Service{Name: "bad", Protocol: &Protocol{}, Folder: "Texas"},
			state:   types.StatePresent,
			wantErr: true,
		},
		{
			name:    "missing protocol under present",
			svc:     Service{Name: "web", Folder: "Texas"},
			state:   types.StatePresent,
			wantErr: true,
		},
		{
			name:  "missing protocol under absent",
			svc:   Service{Name: "web", Folder: "Texas"},
			state: types.StateAbsent,
		},
		{
			name:    "tcp without port",
			svc:     Service{Name: "web", Protocol: &Protocol{TCP: &TCPProtocol{}}, Folder: "Texas"},
			state:   types.StatePresent,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.svc.Validate(tt.state)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestServiceAttrsOverrideDefaults tests boundary default filling
func TestServiceAttrsOverrideDefaults(t *testing.T) {
	t.Run("tcp override gets defaults for omitted values", func(t *testing.T) {
		svc := Service{
			Name: "web",
			Protocol: &Protocol{TCP: &TCPProtocol{
				Port:     "80",
				Override: &TCPOverride{Timeout: intp(30)},
			}},
			Folder: "Texas",
		}
		attrs := svc.Attrs()
		protocol := attrs["protocol"].(map[string]any)
		override := protocol["tcp"].(map[string]any)["override"].(map[string]any)

		assert.Equal(t, 30, override["timeout"])
		assert.Equal(t, DefaultTCPHalfcloseTimeout, override["halfclose_timeout"])
		assert.Equal(t, DefaultTCPTimewaitTimeout, override["timewait_timeout"])
	})

	t.Run("udp override gets default timeout", func(t *testing.T) {
		svc := Service{
			Name: "dns",
			Protocol: &Protocol{UDP: &UDPProtocol{
				Port:     "53",
				Override: &UDPOverride{},
			}},
			Folder: "Texas",
		}
		attrs := svc.Attrs()
		protocol := attrs["protocol"].(map[string]any)
		override := protocol["udp"].(map[string]any)["override"].(map[string]any)

		assert.Equal(t, DefaultUDPTimeout, override["timeout"])
	})

	t.Run("absent override stays absent", func(t *testing.T) {
		svc := Service{
			Name:     "dns",
			Protocol: &Protocol{UDP: &UDPProtocol{Port: "53"}},
			Folder:   "Texas",
		}
		attrs := svc.Attrs()
		udp := attrs["protocol"].(map[string]any)["udp"].(map[string]any)
		assert.NotContains(t, udp, "override")
	})
}

// TestServiceDiffAgainstStoredDefaults tests that a spec without explicit
// overrides reads as in-sync against a remote object holding the defaults
func TestServiceDiffAgainstStoredDefaults(t *testing.T) {
	svc := Service{
		Name: "web",
		Protocol: &Protocol{TCP: &TCPProtocol{
			Port:     "80",
			Override: &TCPOverride{},
		}},
		Folder: "Texas",
	}

	remote := map[string]any{
		"name":   "web",
		"folder": "Texas",
		"protocol": map[string]any{
			"tcp": map[string]any{
				"port": "80",
				"override": map[string]any{
					"timeout":           float64(3600),
					"halfclose_timeout": float64(120),
					"timewait_timeout":  float64(15),
				},
			},
		},
	}

	cs := diff.Compare(svc.Attrs(), remote, svc.Rules())
	assert.True(t, cs.Empty())
}

// TestServiceIdentity tests identity resolution for services
func TestServiceIdentity(t *testing.T) {
	svc := Service{Name: "web", Protocol: &Protocol{TCP: &TCPProtocol{Port: "80"}}, Device: "fw-01"}
	id, err := svc.Identity()
	require.NoError(t, err)
	assert.Equal(t, "service/device/fw-01/web", id.String())
}
