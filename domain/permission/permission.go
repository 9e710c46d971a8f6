// Package permission holds the role to permission mapping and the subset check
// that gates protected endpoints.
package permission

import (
	"sort"
	"strings"

	"github.com/pizzastore/pizzastore/domain/apperror"
	"github.com/pizzastore/pizzastore/domain/entity"
)

type Permission string

const (
	CategoryCreate Permission = "category:create"
	CategoryRead   Permission = "category:read"
	CategoryUpdate Permission = "category:update"
	CategoryDelete Permission = "category:delete"

	ProductCreate Permission = "product:create"
	ProductRead   Permission = "product:read"
	ProductUpdate Permission = "product:update"
	ProductDelete Permission = "product:delete"

	UserDelete Permission = "user:delete"
)

// Set is a set of permissions. The zero value is an empty set.
type Set map[Permission]struct{}

func NewSet(perms ...Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Missing returns the members of required absent from s, sorted.
func (s Set) Missing(required Set) []Permission {
	var missing []Permission
	for p := range required {
		if !s.Has(p) {
			missing = append(missing, p)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing
}

// Check fails with Forbidden unless required is a subset of granted.
func Check(granted, required Set) error {
	missing := granted.Missing(required)
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, p := range missing {
		names[i] = string(p)
	}
	return apperror.Forbidden("missing " + strings.Join(names, ", "))
}

// Table maps roles to granted permissions. It is built once and never mutated.
type Table struct {
	roles map[entity.Role]Set
}

func NewTable(roles map[entity.Role][]Permission) *Table {
	t := &Table{roles: make(map[entity.Role]Set, len(roles))}
	for role, perms := range roles {
		t.roles[role] = NewSet(perms...)
	}
	return t
}

func DefaultTable() *Table {
	return NewTable(map[entity.Role][]Permission{
		entity.RoleUser: {ProductRead, CategoryRead},
		entity.RoleAdmin: {
			ProductCreate, ProductRead, ProductUpdate, ProductDelete,
			CategoryCreate, CategoryRead, CategoryUpdate, CategoryDelete,
			UserDelete,
		},
	})
}

// Granted returns the permissions of role; unknown roles get an empty set.
// The returned set must not be modified.
func (t *Table) Granted(role entity.Role) Set {
	if s, ok := t.roles[role]; ok {
		return s
	}
	return Set{}
}

func (t *Table) Roles() []entity.Role {
	roles := make([]entity.Role, 0, len(t.roles))
	for r := range t.roles {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
