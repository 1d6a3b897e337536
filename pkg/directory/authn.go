package directory

import (
	"context"
	"fmt"

	"github.com/platinummonkey/warden/pkg/auth"
)

// Authenticate verifies an email/password pair against the user collection
// and returns the identity claims to embed in a token: the user's id,
// email, display name, tenant and organization ids, plus the resolved role
// names and the union of those roles' privilege names.
//
// Unknown email and wrong password both return ErrInvalidCredentials so a
// caller cannot enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*auth.IdentityClaims, error) {
	matches, _, err := s.store.Find(ctx, CollectionUsers, Query{
		Filter: map[string]string{"email": email},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(matches) == 0 {
		return nil, auth.ErrInvalidCredentials
	}

	user := matches[0]
	hash, _ := user["password"].(string)
	if !auth.CheckPassword(hash, password) {
		return nil, auth.ErrInvalidCredentials
	}

	claims := &auth.IdentityClaims{
		UserID: stringField(user, "id"),
		Email:  stringField(user, "email"),
		Name:   stringField(user, "name"),
	}
	claims.TenantID = stringField(user, "tenant")
	claims.OrganizationID = stringField(user, "organization")

	roles, privileges, err := s.resolveCapabilities(ctx, user)
	if err != nil {
		return nil, err
	}
	claims.Roles = roles
	claims.Privileges = privileges

	return claims, nil
}

// resolveCapabilities maps the user's role references to role names and
// collects the distinct privilege names those roles grant. Resolution
// happens once, at issuance; verification later trusts the embedded names.
func (s *Service) resolveCapabilities(ctx context.Context, user Document) (auth.NameList, auth.NameList, error) {
	roleIDs := toStringSlice(user["roles"])
	if ids, ok := user["roles"].([]string); ok {
		roleIDs = ids
	}

	roles := make(auth.NameList, 0, len(roleIDs))
	privileges := auth.NameList{}

	for _, roleID := range roleIDs {
		role, err := s.store.FindByID(ctx, CollectionRoles, roleID)
		if err != nil {
			// Dangling role reference; the login still succeeds with the
			// remaining roles.
			continue
		}
		if name, _ := role["name"].(string); name != "" {
			roles = append(roles, name)
		}

		privIDs := toStringSlice(role["privileges"])
		if ids, ok := role["privileges"].([]string); ok {
			privIDs = ids
		}
		for _, privID := range privIDs {
			priv, err := s.store.FindByID(ctx, CollectionPrivileges, privID)
			if err != nil {
				continue
			}
			if name, _ := priv["name"].(string); name != "" && !privileges.Contains(name) {
				privileges = append(privileges, name)
			}
		}
	}

	return roles, privileges, nil
}

// stringField reads a top-level string field, tolerating absence
func stringField(doc Document, field string) string {
	v, _ := doc[field].(string)
	return v
}
