package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// Address is a named network address object. Exactly one of the four address
// kind fields defines it.
type Address struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Tag         []string `yaml:"tag,omitempty"`

	IPNetmask  string `yaml:"ip_netmask,omitempty"`
	IPRange    string `yaml:"ip_range,omitempty"`
	IPWildcard string `yaml:"ip_wildcard,omitempty"`
	FQDN       string `yaml:"fqdn,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (a *Address) Kind() types.ResourceKind {
	return types.KindAddress
}

func (a *Address) Identity() (types.Identity, error) {
	return identity(a.Kind(), a.Name, a.Folder, a.Snippet, a.Device)
}

func (a *Address) Validate(state types.State) error {
	if err := validateCommon(a.Name, a.Folder, a.Snippet, a.Device); err != nil {
		return err
	}
	kinds := []validate.Field{
		{Name: "ip_netmask", Set: a.IPNetmask != ""},
		{Name: "ip_range", Set: a.IPRange != ""},
		{Name: "ip_wildcard", Set: a.IPWildcard != ""},
		{Name: "fqdn", Set: a.FQDN != ""},
	}
	if state == types.StateAbsent {
		return validate.AtMostOne("address kind", kinds...)
	}
	return validate.ExactlyOne("address kind", kinds...)
}

func (a *Address) Attrs() map[string]any {
	m := baseAttrs(a.Name, a.Folder, a.Snippet, a.Device)
	setString(m, "description", a.Description)
	setList(m, "tag", a.Tag)
	setString(m, "ip_netmask", a.IPNetmask)
	setString(m, "ip_range", a.IPRange)
	setString(m, "ip_wildcard", a.IPWildcard)
	setString(m, "fqdn", a.FQDN)
	return m
}

func (a *Address) Rules() diff.Rules {
	return addressRules
}

func (a *Address) Exclusions() []diff.ExclusionGroup {
	return addressExclusions
}

var addressExclusions = []diff.ExclusionGroup{
	{"ip_netmask", "ip_range", "ip_wildcard", "fqdn"},
}

var addressRules = diff.Rules{
	"description": {Kind: diff.Scalar},
	"tag":         {Kind: diff.StringSet},
	"ip_netmask":  {Kind: diff.Scalar},
	"ip_range":    {Kind: diff.Scalar},
	"ip_wildcard": {Kind: diff.Scalar},
	"fqdn":        {Kind: diff.Scalar},
}
