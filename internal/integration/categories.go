package integration

// Categories is an ordered set of category names. The most recently inserted
// category comes first and each name appears once. Values are immutable:
// Insert returns a new Categories.
type Categories struct {
	items []string
}

// NewCategories builds Categories from names in order, dropping repeats and
// empty names.
func NewCategories(names ...string) Categories {
	var c Categories
	for i := len(names) - 1; i >= 0; i-- {
		c = c.Insert(names[i])
	}
	return c
}

// CategoriesFrom reads a metadata value. Anything but a list of strings or a
// single string yields empty Categories.
func CategoriesFrom(v any) Categories {
	switch vv := v.(type) {
	case string:
		return NewCategories(vv)
	case []string:
		return NewCategories(vv...)
	case []any:
		names := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return NewCategories(names...)
	default:
		return Categories{}
	}
}

// Insert places name first. A name already present moves to the front.
func (c Categories) Insert(name string) Categories {
	if name == "" {
		return c
	}
	out := make([]string, 0, len(c.items)+1)
	out = append(out, name)
	for _, existing := range c.items {
		if existing != name {
			out = append(out, existing)
		}
	}
	return Categories{items: out}
}

// Contains reports whether name is present.
func (c Categories) Contains(name string) bool {
	for _, existing := range c.items {
		if existing == name {
			return true
		}
	}
	return false
}

func (c Categories) Len() int { return len(c.items) }

// Items returns a copy of the names, most recent first.
func (c Categories) Items() []string {
	return append([]string(nil), c.items...)
}

// Value returns the names as a metadata list.
func (c Categories) Value() []any {
	out := make([]any, len(c.items))
	for i, s := range c.items {
		out[i] = s
	}
	return out
}
