package domain

// NavItem is one entry of the layout shell's side navigation.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
}

var navigation = map[Role][]NavItem{
	RoleOwner: {
		{Label: "Dashboard", Path: "/owner/dashboard", Icon: "home"},
		{Label: "Hoardings", Path: "/owner/hoardings", Icon: "billboard"},
		{Label: "Contracts", Path: "/owner/contracts", Icon: "file-text"},
		{Label: "Billings", Path: "/owner/billings", Icon: "credit-card"},
		{Label: "Clients", Path: "/owner/clients", Icon: "users"},
		{Label: "Photographers", Path: "/owner/photographers", Icon: "camera"},
		{Label: "Assignments", Path: "/owner/assignments", Icon: "clipboard"},
		{Label: "Photos", Path: "/owner/photos", Icon: "image"},
	},
	RolePhotographer: {
		{Label: "Dashboard", Path: "/photographer/dashboard", Icon: "home"},
		{Label: "Assignments", Path: "/photographer/assignments", Icon: "clipboard"},
		{Label: "Photos", Path: "/photographer/photos", Icon: "image"},
		{Label: "Profile", Path: "/photographer/profile", Icon: "user"},
	},
	RoleClient: {
		{Label: "Dashboard", Path: "/client/dashboard", Icon: "home"},
		{Label: "Contracts", Path: "/client/contracts", Icon: "file-text"},
		{Label: "Photos", Path: "/client/photos", Icon: "image"},
		{Label: "Billings", Path: "/client/billings", Icon: "credit-card"},
		{Label: "Profile", Path: "/client/profile", Icon: "user"},
	},
}

// NavigationFor returns the navigation set for role. Unknown roles get none.
func NavigationFor(role Role) []NavItem {
	items := navigation[role]
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}

// HomeRoute is where a freshly logged-in user of role lands.
func HomeRoute(role Role) string {
	if items := navigation[role]; len(items) > 0 {
		return items[0].Path
	}
	return LoginRoute
}
