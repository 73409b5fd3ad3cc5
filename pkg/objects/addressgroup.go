package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// DynamicFilter selects group members by tag match expression.
type DynamicFilter struct {
	Filter string `yaml:"filter"`
}

// AddressGroup collects address objects either by static member list or by
// dynamic filter expression; the two are mutually exclusive.
type AddressGroup struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tag         []string `yaml:"tag,omitempty"`

	Static  []string       `yaml:"static,omitempty"`
	Dynamic *DynamicFilter `yaml:"dynamic,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (g *AddressGroup) Kind() types.ResourceKind {
	return types.KindAddressGroup
}

func (g *AddressGroup) Identity() (types.Identity, error) {
	return identity(g.Kind(), g.Name, g.Folder, g.Snippet, g.Device)
}

func (g *AddressGroup) Validate(state types.State) error {
	if err := validateCommon(g.Name, g.Folder, g.Snippet, g.Device); err != nil {
		return err
	}
	if g.Dynamic != nil && g.Dynamic.Filter == "" {
		return validate.Required("address group", "dynamic.filter", false)
	}
	kinds := []validate.Field{
		{Name: "static", Set: len(g.Static) > 0},
		{Name: "dynamic", Set: g.Dynamic != nil},
	}
	if state == types.StateAbsent {
		return validate.AtMostOne("group membership kind", kinds...)
	}
	return validate.ExactlyOne("group membership kind", kinds...)
}

func (g *AddressGroup) Attrs() map[string]any {
	m := baseAttrs(g.Name, g.Folder, g.Snippet, g.Device)
	setString(m, "description", g.Description)
	setList(m, "tag", g.Tag)
	setList(m, "static", g.Static)
	if g.Dynamic != nil {
		m["dynamic"] = map[string]any{"filter": g.Dynamic.Filter}
	}
	return m
}

func (g *AddressGroup) Rules() diff.Rules {
	return addressGroupRules
}

func (g *AddressGroup) Exclusions() []diff.ExclusionGroup {
	return addressGroupExclusions
}

var addressGroupExclusions = []diff.ExclusionGroup{
	{"static", "dynamic"},
}

var addressGroupRules = diff.Rules{
	"description": {Kind: diff.Scalar},
	"tag":         {Kind: diff.StringSet},
	"static":      {Kind: diff.StringSet},
	"dynamic":     {Kind: diff.Nested},
}
