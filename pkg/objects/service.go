package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// Session timeout defaults the backend applies when a protocol override is
// configured without explicit values.
const (
	DefaultTCPTimeout          = 3600 // seconds
	DefaultTCPHalfcloseTimeout = 120
	DefaultTCPTimewaitTimeout  = 15
	DefaultUDPTimeout          = 30
)

// TCPOverride carries per-service TCP session timeout overrides.
type TCPOverride struct {
	Timeout          *int `yaml:"timeout,omitempty"`
	HalfcloseTimeout *int `yaml:"halfclose_timeout,omitempty"`
	TimewaitTimeout  *int `yaml:"timewait_timeout,omitempty"`
}

// UDPOverride carries per-service UDP session timeout overrides.
type UDPOverride struct {
	Timeout *int `yaml:"timeout,omitempty"`
}

// TCPProtocol configures a TCP service.
type TCPProtocol struct {
	Port     string       `yaml:"port"`
	Override *TCPOverride `yaml:"override,omitempty"`
}

// UDPProtocol configures a UDP service.
type UDPProtocol struct {
	Port     string       `yaml:"port"`
	Override *UDPOverride `yaml:"override,omitempty"`
}

// Protocol is the tagged protocol variant of a service; exactly one of TCP
// or UDP is set.
type Protocol struct {
	TCP *TCPProtocol `yaml:"tcp,omitempty"`
	UDP *UDPProtocol `yaml:"udp,omitempty"`
}

// attr renders the protocol as backend attributes. Override defaults are
// filled here, once, at the boundary: an override block with omitted values
// gets the type-specific defaults, an absent override block stays absent.
func (p *Protocol) attr() map[string]any {
	m := map[string]any{}
	if p.TCP != nil {
		tcp := map[string]any{"port": p.TCP.Port}
		if o := p.TCP.Override; o != nil {
			tcp["override"] = map[string]any{
				"timeout":           intOr(o.Timeout, DefaultTCPTimeout),
				"halfclose_timeout": intOr(o.HalfcloseTimeout, DefaultTCPHalfcloseTimeout),
				"timewait_timeout":  intOr(o.TimewaitTimeout, DefaultTCPTimewaitTimeout),
			}
		}
		m["tcp"] = tcp
	}
	if p.UDP != nil {
		udp := map[string]any{"port": p.UDP.Port}
		if o := p.UDP.Override; o != nil {
			udp["override"] = map[string]any{
				"timeout": intOr(o.Timeout, DefaultUDPTimeout),
			}
		}
		m["udp"] = udp
	}
	return m
}

func intOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

// Service is a named TCP or UDP service definition.
type Service struct {
	Name        string    `yaml:"name"`
	Protocol    *Protocol `yaml:"protocol,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Tag         []string  `yaml:"tag,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (s *Service) Kind() types.ResourceKind {
	return types.KindService
}

func (s *Service) Identity() (types.Identity, error) {
	return identity(s.Kind(), s.Name, s.Folder, s.Snippet, s.Device)
}

func (s *Service) Validate(state types.State) error {
	if err := validateCommon(s.Name, s.Folder, s.Snippet, s.Device); err != nil {
		return err
	}
	if s.Protocol != nil {
		if err := validate.ExactlyOne("protocol kind",
			validate.Field{Name: "tcp", Set: s.Protocol.TCP != nil},
			validate.Field{Name: "udp", Set: s.Protocol.UDP != nil},
		); err != nil {
			return err
		}
		if s.Protocol.TCP != nil {
			if err := validate.Required("service", "protocol.tcp.port", s.Protocol.TCP.Port != ""); err != nil {
				return err
			}
		}
		if s.Protocol.UDP != nil {
			if err := validate.Required("service", "protocol.udp.port", s.Protocol.UDP.Port != ""); err != nil {
				return err
			}
		}
	}
	if state == types.StateAbsent {
		return nil
	}
	return validate.Required("service", "protocol", s.Protocol != nil)
}

func (s *Service) Attrs() map[string]any {
	m := baseAttrs(s.Name, s.Folder, s.Snippet, s.Device)
	if s.Protocol != nil {
		m["protocol"] = s.Protocol.attr()
	}
	setString(m, "description", s.Description)
	setList(m, "tag", s.Tag)
	return m
}

func (s *Service) Rules() diff.Rules {
	return serviceRules
}

func (s *Service) Exclusions() []diff.ExclusionGroup {
	return serviceExclusions
}

var serviceExclusions = []diff.ExclusionGroup{
	{"protocol.tcp", "protocol.udp"},
}

// serviceRules compares the protocol block structurally; the comparator
// fills the same timeout defaults into a desired override before comparing,
// so an omitted override value never reads as drift against a remote object
// holding the default.
var serviceRules = diff.Rules{
	"description": {Kind: diff.Scalar},
	"tag":         {Kind: diff.StringSet},
	"protocol": {
		Kind: diff.Nested,
		Defaults: map[string]any{
			"tcp": map[string]any{
				"override": map[string]any{
					"timeout":           DefaultTCPTimeout,
					"halfclose_timeout": DefaultTCPHalfcloseTimeout,
					"timewait_timeout":  DefaultTCPTimewaitTimeout,
				},
			},
			"udp": map[string]any{
				"override": map[string]any{
					"timeout": DefaultUDPTimeout,
				},
			},
		},
	},
}
