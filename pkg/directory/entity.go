package directory

import "fmt"

// Resource path segments exposed by the API
const (
	ResourceTenants       = "tenants"
	ResourceOrganizations = "organizations"
	ResourceLegalEntities = "legal-entities"
	ResourceUsers         = "users"
	ResourceRoles         = "roles"
	ResourcePrivileges    = "privileges"
)

// refSpec describes one reference field of an entity
type refSpec struct {
	field      string // document field holding the reference
	collection string // referenced collection
	required   bool
	multi      bool // true for arrays of references (roles, privileges)
}

// entitySpec drives validation and expansion for one entity type
type entitySpec struct {
	collection string
	// required scalar string fields that must be present and non-empty
	required []string
	// unique scalar string fields (email, role name, privilege name)
	unique []string
	// reference fields, all validated for existence at write time
	refs []refSpec
	// reference fields accepted as list filters
	filterable []string
	// entities carrying an active flag default it to true on create
	activeFlag bool
	// users carry a password handled outside the generic pipeline
	passwordField bool
}

// specs maps resource path segments to their entity descriptors
var specs = map[string]entitySpec{
	ResourceTenants: {
		collection: CollectionTenants,
		required:   []string{"name"},
		activeFlag: true,
	},
	ResourceOrganizations: {
		collection: CollectionOrganizations,
		required:   []string{"name"},
		refs: []refSpec{
			{field: "tenant", collection: CollectionTenants, required: true},
		},
		filterable: []string{"tenant"},
		activeFlag: true,
	},
	ResourceLegalEntities: {
		collection: CollectionLegalEntities,
		required:   []string{"name"},
		refs: []refSpec{
			{field: "organization", collection: CollectionOrganizations, required: true},
			{field: "tenant", collection: CollectionTenants},
		},
		filterable: []string{"tenant", "organization"},
		activeFlag: true,
	},
	ResourceUsers: {
		collection: CollectionUsers,
		required:   []string{"name", "email"},
		unique:     []string{"email"},
		refs: []refSpec{
			{field: "organization", collection: CollectionOrganizations},
			{field: "tenant", collection: CollectionTenants},
			{field: "roles", collection: CollectionRoles, multi: true},
		},
		filterable:    []string{"tenant", "organization"},
		activeFlag:    true,
		passwordField: true,
	},
	ResourceRoles: {
		collection: CollectionRoles,
		required:   []string{"name"},
		unique:     []string{"name"},
		refs: []refSpec{
			{field: "privileges", collection: CollectionPrivileges, multi: true},
		},
	},
	ResourcePrivileges: {
		collection: CollectionPrivileges,
		required:   []string{"name"},
		unique:     []string{"name"},
	},
}

// Resources returns the resource segments in route registration order
func Resources() []string {
	return []string{
		ResourceTenants,
		ResourceOrganizations,
		ResourceLegalEntities,
		ResourceUsers,
		ResourceRoles,
		ResourcePrivileges,
	}
}

// lookupSpec resolves a resource segment to its descriptor
func lookupSpec(resource string) (entitySpec, error) {
	spec, ok := specs[resource]
	if !ok {
		return entitySpec{}, fmt.Errorf("unknown resource: %s", resource)
	}
	return spec, nil
}
