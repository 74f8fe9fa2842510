package auth

import (
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// Role is the authorization role carried in a session token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMember   Role = "member"
	RoleTeamLead Role = "teamlead"
)

// Roles lists every role a token may carry.
var Roles = []Role{RoleAdmin, RoleMember, RoleTeamLead}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Identity is the user identity embedded in a session token.
type Identity struct {
	UserID uint   `json:"userId" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   Role   `json:"role" validate:"required,oneof=admin member teamlead"`
}

// Claims is the JWT payload: the identity plus iat/exp.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

var claimValidator = validator.New()

// Validate implements jwt.ClaimsValidator so a payload that does not carry a
// complete identity fails verification.
func (c Claims) Validate() error {
	return claimValidator.Struct(c.Identity)
}
