package web

type Tab struct {
	Label string
	Path  string
}

// Tabs returns the four top-level destinations in display order. The active
// tab is the one whose path equals the current path.
func Tabs() []Tab {
	return []Tab{
		{Label: "Products", Path: "/products"},
		{Label: "Categories", Path: "/categories"},
		{Label: "Cart", Path: "/cart"},
		{Label: "Contact", Path: "/contact"},
	}
}
