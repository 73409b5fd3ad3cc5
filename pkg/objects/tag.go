package objects

import (
	"github.com/cdot65/scmsync/pkg/diff"
	"github.com/cdot65/scmsync/pkg/types"
)

// Tag is a named label with an optional display color, attachable to other
// configuration objects.
type Tag struct {
	Name     string `yaml:"name"`
	Color    string `yaml:"color,omitempty"`
	Comments string `yaml:"comments,omitempty"`

	Folder  string `yaml:"folder,omitempty"`
	Snippet string `yaml:"snippet,omitempty"`
	Device  string `yaml:"device,omitempty"`
}

func (t *Tag) Kind() types.ResourceKind {
	return types.KindTag
}

func (t *Tag) Identity() (types.Identity, error) {
	return identity(t.Kind(), t.Name, t.Folder, t.Snippet, t.Device)
}

func (t *Tag) Validate(state types.State) error {
	return validateCommon(t.Name, t.Folder, t.Snippet, t.Device)
}

func (t *Tag) Attrs() map[string]any {
	m := baseAttrs(t.Name, t.Folder, t.Snippet, t.Device)
	setString(m, "color", t.Color)
	setString(m, "comments", t.Comments)
	return m
}

func (t *Tag) Rules() diff.Rules {
	return tagRules
}

func (t *Tag) Exclusions() []diff.ExclusionGroup {
	return nil
}

var tagRules = diff.Rules{
	"color":    {Kind: diff.Scalar},
	"comments": {Kind: diff.Scalar},
}
