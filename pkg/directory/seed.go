package directory

import (
	"context"
	"encoding/json"
	"fmt"
)

// Demo fixture credentials, mirroring the account the dashboard frontend
// has always shipped with.
const (
	DemoEmail    = "user@example.com"
	DemoPassword = "password123"
)

// SeedDemo populates a fresh store with a minimal working dataset: a
// tenant, an organization under it, a manage_users privilege, an Admin
// role granting it, and the demo admin user. Seeding is idempotent: if
// the demo user already exists nothing is written.
func SeedDemo(ctx context.Context, svc *Service) error {
	existing, _, err := svc.Store().Find(ctx, CollectionUsers, Query{
		Filter: map[string]string{"email": DemoEmail},
		Limit:  1,
	})
	if err != nil {
		return fmt.Errorf("seed: check demo user: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	tenant, err := seedCreate(ctx, svc, ResourceTenants, Document{
		"name":        "Acme Corp",
		"description": "Demo tenant",
		"email":       "admin@acme.com",
		"phone":       "1234567890",
		"website":     "https://acme.com",
	})
	if err != nil {
		return err
	}

	org, err := seedCreate(ctx, svc, ResourceOrganizations, Document{
		"name":        "Acme Engineering",
		"description": "Demo organization",
		"tenant":      tenant["id"],
	})
	if err != nil {
		return err
	}

	privilege, err := seedCreate(ctx, svc, ResourcePrivileges, Document{
		"name":        "manage_users",
		"description": "Create, update, and delete directory entities",
	})
	if err != nil {
		return err
	}

	role, err := seedCreate(ctx, svc, ResourceRoles, Document{
		"name":        "Admin",
		"description": "Full administrative access",
		"privileges":  []interface{}{privilege["id"]},
	})
	if err != nil {
		return err
	}

	_, err = seedCreate(ctx, svc, ResourceUsers, Document{
		"name":         "John Doe",
		"email":        DemoEmail,
		"password":     DemoPassword,
		"tenant":       tenant["id"],
		"organization": org["id"],
		"roles":        []interface{}{role["id"]},
	})
	return err
}

// seedCreate runs a document through the normal create pipeline so seeded
// data gets the same validation and stamping as API writes.
func seedCreate(ctx context.Context, svc *Service, resource string, doc Document) (Document, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", resource, err)
	}
	created, err := svc.Create(ctx, resource, body)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", resource, err)
	}
	return created, nil
}
