package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// ServiceGroup is a named set of service members.
type ServiceGroup struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members,omitempty"`
	Tag     []string `yaml:"tag,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (g *ServiceGroup) Kind() types.ResourceKind {
	return types.KindServiceGroup
}

func (g *ServiceGroup) Identity() (types.Identity, error) {
	return identity(g.Kind(), g.Name, g.Folder, g.Snippet, g.Device)
}

func (g *ServiceGroup) Validate(state types.State) error {
	if err := validateCommon(g.Name, g.Folder, g.Snippet, g.Device); err != nil {
		return err
	}
	if state == types.StateAbsent {
		return nil
	}
	return validate.Required("service group", "members", len(g.Members) > 0)
}

func (g *ServiceGroup) Attrs() map[string]any {
	m := baseAttrs(g.Name, g.Folder, g.Snippet, g.Device)
	setList(m, "members", g.Members)
	setList(m, "tag", g.Tag)
	return m
}

func (g *ServiceGroup) Rules() diff.Rules {
	return serviceGroupRules
}

func (g *ServiceGroup) Exclusions() []diff.ExclusionGroup {
	return nil
}

var serviceGroupRules = diff.Rules{
	"members": {Kind: diff.StringSet},
	"tag":     {Kind: diff.StringSet},
}
