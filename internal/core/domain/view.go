package domain

type ViewMode string

const (
	ViewTable ViewMode = "table"
	ViewCard  ViewMode = "card"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewTable, ViewCard:
		return ViewMode(s), nil
	}
	return "", validationError("unknown view %q, want table or card", s)
}

// ViewOrDefault maps a stored value to a view, defaulting to the table view.
func ViewOrDefault(s string) ViewMode {
	if v, err := ParseViewMode(s); err == nil {
		return v
	}
	return ViewTable
}
