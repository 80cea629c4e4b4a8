package models

// Category groups slots. Read-only from the client.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Preferences is the set of categories a user is interested in. An empty
// set means no scoping.
type Preferences struct {
	ID         ID   `json:"id,omitempty"`
	Categories []ID `json:"categories"`
}

// Has reports whether the category is part of the preference set.
func (p Preferences) Has(id ID) bool {
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}
