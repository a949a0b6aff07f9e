package paint

import (
	"sort"
)

// Lookup resolves paint styles to skin paths within a paint group, and back
type Lookup interface {
	Path(group, style string) (string, bool)
	Style(group, path string) (string, bool)
}

// Catalog is a read-only Lookup built from the configured paint groups
type Catalog struct {
	paths  map[string]map[string]string
	styles map[string]map[string]string
}

// NewCatalog indexes groups (group -> style -> skin path) in both directions.
// The input map is copied.
func NewCatalog(groups map[string]map[string]string) *Catalog {
	c := &Catalog{
		paths:  make(map[string]map[string]string, len(groups)),
		styles: make(map[string]map[string]string, len(groups)),
	}
	for group, styles := range groups {
		fwd := make(map[string]string, len(styles))
		rev := make(map[string]string, len(styles))
		for style, path := range styles {
			fwd[style] = path
			rev[path] = style
		}
		c.paths[group] = fwd
		c.styles[group] = rev
	}
	return c
}

// Path returns the skin path of style in group
func (c *Catalog) Path(group, style string) (string, bool) {
	p, ok := c.paths[group][style]
	return p, ok
}

// Style returns the style whose skin is path in group
func (c *Catalog) Style(group, path string) (string, bool) {
	s, ok := c.styles[group][path]
	return s, ok
}

// HasGroup reports whether group is defined
func (c *Catalog) HasGroup(group string) bool {
	_, ok := c.paths[group]
	return ok
}

// Groups lists the defined groups in sorted order
func (c *Catalog) Groups() []string {
	out := make([]string, 0, len(c.paths))
	for g := range c.paths {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Styles lists the styles of group in sorted order
func (c *Catalog) Styles(group string) []string {
	styles := c.paths[group]
	out := make([]string, 0, len(styles))
	for s := range styles {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
