package domain

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry is a fixed, ordered set of categories. The first category is the
// fallback for names that do not resolve.
type Registry struct {
	categories []Category
}

func NewRegistry(categories ...Category) *Registry {
	cs := make([]Category, len(categories))
	copy(cs, categories)
	return &Registry{categories: cs}
}

// DefaultRegistry returns the stock category set.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Category{ID: 1, Name: "Household", Description: "Products for household use"},
		Category{ID: 2, Name: "Produce", Description: "Fresh fruits and vegetables"},
		Category{ID: 3, Name: "Frozen Foods", Description: "Frozen products"},
		Category{ID: 4, Name: "Beverages", Description: "Drinks and juices"},
	)
}

func (r *Registry) All() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

func (r *Registry) Default() Category {
	if len(r.categories) == 0 {
		return Category{}
	}
	return r.categories[0]
}

// Resolve returns the category with the exact name, or the default category.
func (r *Registry) Resolve(name string) Category {
	for _, c := range r.categories {
		if c.Name == name {
			return c
		}
	}
	return r.Default()
}

// Lookup returns the category with the given id, or the default category.
func (r *Registry) Lookup(id int) Category {
	for _, c := range r.categories {
		if c.ID == id {
			return c
		}
	}
	return r.Default()
}
