package auth

// Authorize allows identity only when its role equals required. Roles do not
// form a hierarchy.
func Authorize(identity Identity, required Role) error {
	if identity.Role != required {
		return ErrForbidden
	}
	return nil
}

// AuthorizeAny allows identity when its role equals one of roles.
func AuthorizeAny(identity Identity, roles ...Role) error {
	for _, r := range roles {
		if Authorize(identity, r) == nil {
			return nil
		}
	}
	return ErrForbidden
}
