package model

// OptionDefinition describes one selectable option inside a group.
//
// An option is either a bare identifier (Bare is true, only Name is set) or
// a descriptor map carrying a description, an editable input and flags.
type OptionDefinition struct {
	Name        string  `mapstructure:"name" yaml:"name"`
	Description string  `mapstructure:"description" yaml:"description,omitempty"`
	Editable    bool    `mapstructure:"editable" yaml:"editable,omitempty"`
	Default     *string `mapstructure:"default" yaml:"default,omitempty"`
	Hidden      bool    `mapstructure:"hidden" yaml:"hidden,omitempty"`
	Selected    bool    `mapstructure:"selected" yaml:"selected,omitempty"`

	Bare bool `mapstructure:"-" yaml:"-"`
}

// GroupDefinition describes a group of options and nested subgroups.
//
// Options and Subgroups are nil when the key was absent and non-nil (maybe
// empty) when it was present. SubgroupsInvalid is set when a "subgroups"
// key existed but did not hold a list.
type GroupDefinition struct {
	Name         string `mapstructure:"name" yaml:"name"`
	Description  string `mapstructure:"description" yaml:"description,omitempty"`
	PreScript    string `mapstructure:"pre-install" yaml:"pre-install,omitempty"`
	PostScript   string `mapstructure:"post-install" yaml:"post-install,omitempty"`
	Source       string `mapstructure:"source" yaml:"source,omitempty"`
	Distinct     bool   `mapstructure:"distinct" yaml:"distinct,omitempty"`
	Immutable    bool   `mapstructure:"immutable" yaml:"immutable,omitempty"`
	Noncheckable bool   `mapstructure:"noncheckable" yaml:"noncheckable,omitempty"`
	Expanded     bool   `mapstructure:"expanded" yaml:"expanded,omitempty"`
	Hidden       bool   `mapstructure:"hidden" yaml:"hidden,omitempty"`
	Required     bool   `mapstructure:"required" yaml:"required,omitempty"`
	Selected     *bool  `mapstructure:"selected" yaml:"selected,omitempty"`

	Options          []OptionDefinition `mapstructure:"-" yaml:"options,omitempty"`
	Subgroups        []GroupDefinition  `mapstructure:"-" yaml:"subgroups,omitempty"`
	SubgroupsInvalid bool               `mapstructure:"-" yaml:"-"`
}

// IsZero reports whether the definition came from an empty map.
func (g GroupDefinition) IsZero() bool {
	return g.Name == "" && g.Description == "" && g.PreScript == "" && g.PostScript == "" &&
		g.Source == "" && !g.Distinct && !g.Immutable && !g.Noncheckable && !g.Expanded &&
		!g.Hidden && !g.Required && g.Selected == nil &&
		g.Options == nil && g.Subgroups == nil && !g.SubgroupsInvalid
}

// Sources returns the nonempty source tags of groups, in order.
func Sources(groups []GroupDefinition) []string {
	sources := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Source != "" {
			sources = append(sources, g.Source)
		}
	}

	return sources
}

// HiddenRule marks a node hidden when its description contains Marker and
// the installer state value stored under Key contains Contains.
type HiddenRule struct {
	Marker   string `mapstructure:"marker" yaml:"marker"`
	Key      string `mapstructure:"key" yaml:"key"`
	Contains string `mapstructure:"contains" yaml:"contains"`
}
