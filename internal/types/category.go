// Package types provides type definitions for structured data used throughout the skill-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// Category tags a vocabulary entry with the signal it represents.
type Category int

const (
	CategoryTechnical Category = iota
	CategorySoft
	CategoryExperience
	CategoryEducation
)

// AllCategories lists every category in extraction order.
var AllCategories = []Category{
	CategoryTechnical,
	CategorySoft,
	CategoryExperience,
	CategoryEducation,
}

var categoryNames = map[Category]string{
	CategoryTechnical:  "technical",
	CategorySoft:       "soft",
	CategoryExperience: "experience",
	CategoryEducation:  "education",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts the lowercase category name back to a Category.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// MarshalText implements encoding.TextMarshaler so categories encode as their names in JSON.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
