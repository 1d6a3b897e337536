package auth

// Requirement names the capabilities a route demands. Roles and Privileges
// each combine as OR within the set; when both sets are non-empty the two
// checks combine as AND, so the claims must satisfy each set independently.
type Requirement struct {
	Roles      []string `json:"roles,omitempty"`
	Privileges []string `json:"privileges,omitempty"`
}

// IsZero reports whether the requirement demands nothing
func (r Requirement) IsZero() bool {
	return len(r.Roles) == 0 && len(r.Privileges) == 0
}

// Authorize decides ALLOW (nil) or DENY (error) for a claim set against a
// requirement. Absent claims deny with ErrUnauthorized regardless of the
// requirement; a non-empty role or privilege set with no intersection
// denies with the matching forbidden error.
func Authorize(claims *IdentityClaims, req Requirement) error {
	if claims == nil {
		return ErrUnauthorized
	}
	if len(req.Roles) > 0 && !claims.Roles.ContainsAny(req.Roles) {
		return ErrInsufficientRole
	}
	if len(req.Privileges) > 0 && !claims.Privileges.ContainsAny(req.Privileges) {
		return ErrInsufficientPrivilege
	}
	return nil
}
