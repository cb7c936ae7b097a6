package enums

type Role string

const (
	RoleTalent    Role = "talent"
	RoleRecruiter Role = "recruiter"
	RoleCompany   Role = "company"
)

// Valid reports whether r is one of the three marketplace roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTalent, RoleRecruiter, RoleCompany:
		return true
	default:
		return false
	}
}
