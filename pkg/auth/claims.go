package auth

import (
	"encoding/json"
	"fmt"
)

// NameList is a set of capability names. Tokens minted by older deployments
// embed role and privilege entries either as bare strings or as objects with
// a name field; both decode into plain names here, so the gate never sees
// the polymorphic representation.
type NameList []string

// UnmarshalJSON accepts ["admin"] as well as [{"name":"admin"}]
func (n *NameList) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("capability list must be an array: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && obj.Name != "" {
			out = append(out, obj.Name)
			continue
		}
		return fmt.Errorf("capability entry must be a string or an object with a name")
	}

	*n = out
	return nil
}

// Contains reports whether the list holds the given name
func (n NameList) Contains(name string) bool {
	for _, candidate := range n {
		if candidate == name {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the list intersects the given names
func (n NameList) ContainsAny(names []string) bool {
	for _, name := range names {
		if n.Contains(name) {
			return true
		}
	}
	return false
}

// IdentityClaims is the identity embedded in an access token. The verifier
// returns it exactly as issued; nothing is re-resolved from storage.
type IdentityClaims struct {
	UserID         string   `json:"id"`
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	TenantID       string   `json:"tenant_id,omitempty"`
	OrganizationID string   `json:"organization_id,omitempty"`
	Roles          NameList `json:"roles,omitempty"`
	Privileges     NameList `json:"privileges,omitempty"`
}
