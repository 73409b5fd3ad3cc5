package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
	"github.com/cdot65/scmsync/pkg/validate"
)

// Application is a custom application definition. Applications live in a
// folder or snippet; the backend has no device scope for them.
type Application struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category,omitempty"`
	Subcategory string `yaml:"subcategory,omitempty"`
	Technology  string `yaml:"technology,omitempty"`
	Risk        string `yaml:"risk,omitempty"`
	Description string `yaml:"description,omitempty"`

	DefaultTimeout          *int     `yaml:"default_timeout,omitempty"`
	Ports                   []string `yaml:"ports,omitempty"`
	TransfersFiles          *bool    `yaml:"transfers_files,omitempty"`
	HasKnownVulnerabilities *bool    `yaml:"has_known_vulnerabilities,omitempty"`
	Tag                     []string `yaml:"tag,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
}

func (a *Application) Kind() types.ResourceKind {
	return types.KindApplication
}

func (a *Application) Identity() (types.Identity, error) {
	return identity(a.Kind(), a.Name, a.Folder, a.Snippet, "")
}

func (a *Application) Validate(state types.State) error {
	if err := validateCommon(a.Name, a.Folder, a.Snippet, ""); err != nil {
		return err
	}
	if state == types.StateAbsent {
		return nil
	}
	for _, f := range []validate.Field{
		{Name: "category", Set: a.Category != ""},
		{Name: "subcategory", Set: a.Subcategory != ""},
		{Name: "technology", Set: a.Technology != ""},
		{Name: "risk", Set: a.Risk != ""},
	} {
		if err := validate.Required("application", f.Name, f.Set); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) Attrs() map[string]any {
	m := baseAttrs(a.Name, a.Folder, a.Snippet, "")
	setString(m, "category", a.Category)
	setString(m, "subcategory", a.Subcategory)
	setString(m, "technology", a.Technology)
	setString(m, "risk", a.Risk)
	setString(m, "description", a.Description)
	setInt(m, "default_timeout", a.DefaultTimeout)
	setList(m, "ports", a.Ports)
	setBool(m, "transfers_files", a.TransfersFiles)
	setBool(m, "has_known_vulnerabilities", a.HasKnownVulnerabilities)
	setList(m, "tag", a.Tag)
	return m
}

func (a *Application) Rules() diff.Rules {
	return applicationRules
}

func (a *Application) Exclusions() []diff.ExclusionGroup {
	return nil
}

var applicationRules = diff.Rules{
	"category":                  {Kind: diff.Scalar},
	"subcategory":               {Kind: diff.Scalar},
	"technology":                {Kind: diff.Scalar},
	"risk":                      {Kind: diff.Scalar},
	"description":               {Kind: diff.Scalar},
	"default_timeout":           {Kind: diff.Scalar},
	"ports":                     {Kind: diff.StringSet},
	"transfers_files":           {Kind: diff.Scalar},
	"has_known_vulnerabilities": {Kind: diff.Scalar},
	"tag":                       {Kind: diff.StringSet},
}
