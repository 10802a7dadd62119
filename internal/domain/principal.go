package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Principal is an already authenticated caller.
type Principal struct {
	ID   string
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Owns reports whether the principal is the owner of the account.
func (p Principal) Owns(a *Account) bool {
	return string(a.Owner.Kind) == string(p.Role) && a.Owner.ID == p.ID
}

// CanRead reports whether the principal may read the account.
func (p Principal) CanRead(a *Account) bool {
	return p.IsAdmin() || p.Owns(a)
}
