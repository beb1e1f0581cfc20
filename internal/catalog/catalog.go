// Package catalog holds the assignment category catalog and the keyword
// matcher that suggests a category from a free-text description.
package catalog

import (
	"fmt"
	"strings"
)

// HandlerType is the team that works a category.
type HandlerType string

const (
	HandlerCompSci HandlerType = "comp_sci_helpers"
	HandlerSTEM    HandlerType = "external_stem_team"
	HandlerAIMisc  HandlerType = "ai_misc"
)

// HandlerTypes lists handler types in display order.
var HandlerTypes = []HandlerType{HandlerCompSci, HandlerSTEM, HandlerAIMisc}

func (h HandlerType) Valid() bool {
	for _, k := range HandlerTypes {
		if h == k {
			return true
		}
	}
	return false
}

// Label is the heading shown above a handler type's categories.
func (h HandlerType) Label() string {
	switch h {
	case HandlerCompSci:
		return "Comp Sci Helpers"
	case HandlerSTEM:
		return "External STEM Team"
	case HandlerAIMisc:
		return "AI / Misc"
	default:
		return string(h)
	}
}

// Category is one entry in the catalog.
type Category struct {
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Description string      `json:"description" yaml:"description"`
	HandlerType HandlerType `json:"handlerType" yaml:"handlerType" validate:"required"`
}

// Catalog is an ordered list of categories.
type Catalog []Category

// Find looks a category up by name, ignoring case.
func (c Catalog) Find(name string) (Category, bool) {
	for _, cat := range c {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// Names returns the category names in catalog order.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c))
	for _, cat := range c {
		out = append(out, cat.Name)
	}
	return out
}

// Group buckets categories by handler type, keeping catalog order inside
// each bucket.
func (c Catalog) Group() map[HandlerType][]Category {
	out := make(map[HandlerType][]Category)
	for _, cat := range c {
		out[cat.HandlerType] = append(out[cat.HandlerType], cat)
	}
	return out
}

// Validate rejects empty names, unknown handler types and duplicates.
func (c Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c))
	for i, cat := range c {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category %d: empty name", i)
		}
		if !cat.HandlerType.Valid() {
			return fmt.Errorf("category %q: unknown handler type %q", cat.Name, cat.HandlerType)
		}
		key := strings.ToLower(cat.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("category %q: duplicate", cat.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
