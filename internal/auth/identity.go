package auth

// Role is the privilege tier stored on a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// Privileged is implemented by callers that may be checked for the privileged tier.
type Privileged interface {
	CanListUsers() bool
}

// Identity is the read-only view of the calling user handed to request handlers.
type Identity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Disabled bool   `json:"disabled"`
	Role     Role   `json:"role"`
}

var _ Privileged = Identity{}

// CanListUsers is true only for the admin tier.
func (i Identity) CanListUsers() bool {
	return i.Role == RoleAdmin
}

// CanManage reports whether the identity may change the account named username.
func (i Identity) CanManage(username string) bool {
	return i.Username == username || i.Role == RoleAdmin
}
