package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// ApplicationGroup is a named set of application members.
type ApplicationGroup struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (g *ApplicationGroup) Kind() types.ResourceKind {
	return types.KindApplicationGroup
}

func (g *ApplicationGroup) Identity() (types.Identity, error) {
	return identity(g.Kind(), g.Name, g.Folder, g.Snippet, g.Device)
}

func (g *ApplicationGroup) Validate(state types.State) error {
	if err := validateCommon(g.Name, g.Folder, g.Snippet, g.Device); err != nil {
		return err
	}
	if state == types.StateAbsent {
		return nil
	}
	return validate.Required("application group", "members", len(g.Members) > 0)
}

func (g *ApplicationGroup) Attrs() map[string]any {
	m := baseAttrs(g.Name, g.Folder, g.Snippet, g.Device)
	setList(m, "members", g.Members)
	return m
}

func (g *ApplicationGroup) Rules() diff.Rules {
	return applicationGroupRules
}

func (g *ApplicationGroup) Exclusions() []diff.ExclusionGroup {
	return nil
}

var applicationGroupRules = diff.Rules{
	"members": {Kind: diff.StringSet},
}
