package views

import "github.com/doable/dashboard/internal/core/domain"

// NavItem is one sidebar link.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

var navItems = []struct {
	item      NavItem
	adminOnly bool
}{
	{NavItem{Label: "Profile", Href: "/dashboard/profile"}, false},
	{NavItem{Label: "Dashboard", Href: "/dashboard"}, false},
	{NavItem{Label: "Projects", Href: "/dashboard/projects"}, false},
	{NavItem{Label: "Employees", Href: "/dashboard/employees"}, true},
}

// Nav returns the sidebar for role with the entry at active highlighted.
// Employees is shown to admins only.
func Nav(role domain.Role, active string) []NavItem {
	out := make([]NavItem, 0, len(navItems))
	for _, n := range navItems {
		if n.adminOnly && role != domain.RoleAdmin {
			continue
		}
		item := n.item
		item.Active = item.Href == active
		out = append(out, item)
	}
	return out
}
