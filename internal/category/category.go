// Package category holds the fixed registry of support categories: the
// canonical query classes a user request can be routed to, each with its
// keyword set, example queries, response template, and tagged knowledge
// documents. The registry is loaded once at startup and immutable afterwards.
package category

import "fmt"

// DefaultName is the fallback category when classification finds no match.
const DefaultName = "general_support"

// Category is one support-intent class.
type Category struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Examples    []string `yaml:"examples"`
	Keywords    []string `yaml:"keywords"`
	Template    string   `yaml:"template"`
	// Documents lists knowledge-base source files tagged to this category,
	// used to scope vector search when a category filter is supplied.
	Documents []string `yaml:"documents"`
}

// Registry is an ordered, immutable set of categories. Declaration order is
// significant: it is the documented tie-break for classification scores.
type Registry struct {
	categories []Category
	byName     map[string]int
}

// NewRegistry builds a registry from the given categories, validating each
// record. Returns an error on duplicate names, missing fields, or when the
// default category is absent.
func NewRegistry(categories []Category) (*Registry, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("registry has no categories")
	}
	byName := make(map[string]int, len(categories))
	for i, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category %d: name is required", i)
		}
		if _, dup := byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", c.Name)
		}
		if c.Description == "" {
			return nil, fmt.Errorf("category %q: description is required", c.Name)
		}
		if len(c.Examples) == 0 {
			return nil, fmt.Errorf("category %q: at least one example query is required", c.Name)
		}
		if c.Template == "" {
			return nil, fmt.Errorf("category %q: response template is required", c.Name)
		}
		byName[c.Name] = i
	}
	if _, ok := byName[DefaultName]; !ok {
		return nil, fmt.Errorf("registry is missing the default category %q", DefaultName)
	}
	return &Registry{categories: categories, byName: byName}, nil
}

// All returns the categories in declaration order.
func (r *Registry) All() []Category {
	return r.categories
}

// Get returns the category by name, or false when unknown.
func (r *Registry) Get(name string) (Category, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

// Default returns the fallback category.
func (r *Registry) Default() Category {
	c, _ := r.Get(DefaultName)
	return c
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.categories)
}
