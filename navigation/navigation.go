package navigation

import (
	"github.com/octabyte/bm-talentportal/enums"
	"github.com/octabyte/bm-talentportal/models"
)

var menus = map[enums.Role][]models.MenuItem{
	enums.RoleTalent: {
		{Path: "/admin/dashboard", Label: "Dashboard"},
		{Path: "/admin/jobs", Label: "Find Jobs"},
		{Path: "/admin/applications", Label: "My Applications"},
		{Path: "/admin/connections", Label: "Connections"},
		{Path: "/admin/profile", Label: "Profile"},
	},
	enums.RoleRecruiter: {
		{Path: "/admin/dashboard", Label: "Dashboard"},
		{Path: "/admin/talents", Label: "Talents"},
		{Path: "/admin/proposals", Label: "Proposals"},
	},
	enums.RoleCompany: {
		{Path: "/admin/dashboard", Label: "Dashboard"},
		{Path: "/admin/company/jobs", Label: "Job Postings"},
		{Path: "/admin/billing", Label: "Billing"},
		{Path: "/admin/profile", Label: "Profile"},
	},
}

// ForRole returns a copy of the role's menu. Unknown roles get an empty,
// non-nil menu.
func ForRole(role enums.Role) []models.MenuItem {
	items := menus[role]
	out := make([]models.MenuItem, len(items))
	copy(out, items)
	return out
}

// ForSession returns the menu of the signed in user, or an empty menu.
func ForSession(s *models.Session) []models.MenuItem {
	if s == nil || !s.Authenticated() {
		return ForRole("")
	}
	return ForRole(s.User.Role)
}

// Allowed reports whether path is one of the role's menu entries or below one.
func Allowed(role enums.Role, path string) bool {
	for _, item := range menus[role] {
		if path == item.Path || len(path) > len(item.Path) && path[:len(item.Path)+1] == item.Path+"/" {
			return true
		}
	}
	return false
}
