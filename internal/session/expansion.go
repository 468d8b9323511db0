package session

// Expansion tracks which posting in a rendered list shows its detail panel.
// The zero value is collapsed. At most one posting is expanded at a time.
type Expansion struct {
	id string
}

// Toggle applies a tap on id: opens it when collapsed, closes it when it is
// already open, and switches to it when another posting is open.
func (e *Expansion) Toggle(id string) {
	if e.id == id {
		e.id = ""
		return
	}
	e.id = id
}

// Collapse closes any open detail panel.
func (e *Expansion) Collapse() {
	e.id = ""
}

// ID returns the expanded posting id, or "" when collapsed.
func (e Expansion) ID() string {
	return e.id
}

// IsExpanded reports whether id is the expanded posting.
func (e Expansion) IsExpanded(id string) bool {
	return id != "" && e.id == id
}
