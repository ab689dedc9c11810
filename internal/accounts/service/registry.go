package service

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
)

// Registry resolves the fixed roles and statuses against the seeded
// reference tables. It is loaded once at startup and read-only afterwards,
// so it is safe for concurrent use.
type Registry struct {
	roles    map[domain.Role]string
	statuses map[domain.Status]string
}

// LoadRegistry reads the reference tables. Rows with ids outside the known
// enumerations are ignored.
func LoadRegistry(ctx context.Context, st store.Store) (*Registry, error) {
	roles, err := st.References().ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	statuses, err := st.References().ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statuses: %w", err)
	}

	reg := &Registry{
		roles:    make(map[domain.Role]string, len(roles)),
		statuses: make(map[domain.Status]string, len(statuses)),
	}
	for _, ref := range roles {
		if r, ok := domain.ParseRole(ref.ID); ok {
			reg.roles[r] = ref.Name
		}
	}
	for _, ref := range statuses {
		if s, ok := domain.ParseStatus(ref.ID); ok {
			reg.statuses[s] = ref.Name
		}
	}
	return reg, nil
}

func (r *Registry) role(role domain.Role) (domain.Role, error) {
	if _, ok := r.roles[role]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrRoleNotFound, role)
	}
	return role, nil
}

func (r *Registry) status(status domain.Status) (domain.Status, error) {
	if _, ok := r.statuses[status]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrStatusNotFound, status)
	}
	return status, nil
}

func (r *Registry) AdminRole() (domain.Role, error) { return r.role(domain.RoleAdmin) }
func (r *Registry) UserRole() (domain.Role, error)  { return r.role(domain.RoleUser) }

func (r *Registry) ActiveStatus() (domain.Status, error)   { return r.status(domain.StatusActive) }
func (r *Registry) InactiveStatus() (domain.Status, error) { return r.status(domain.StatusInactive) }
func (r *Registry) DeactivatedStatus() (domain.Status, error) {
	return r.status(domain.StatusDeactivated)
}
func (r *Registry) PendingStatus() (domain.Status, error) { return r.status(domain.StatusPending) }

// HasRole reports whether id names a seeded role.
func (r *Registry) HasRole(id int) bool {
	role, ok := domain.ParseRole(id)
	if !ok {
		return false
	}
	_, ok = r.roles[role]
	return ok
}

// HasStatus reports whether id names a seeded status.
func (r *Registry) HasStatus(id int) bool {
	status, ok := domain.ParseStatus(id)
	if !ok {
		return false
	}
	_, ok = r.statuses[status]
	return ok
}

// Roles lists the seeded roles in id order.
func (r *Registry) Roles() []domain.Reference {
	out := make([]domain.Reference, 0, len(r.roles))
	for _, role := range domain.Roles() {
		if name, ok := r.roles[role]; ok {
			out = append(out, domain.Reference{ID: int(role), Name: name})
		}
	}
	return out
}

// Statuses lists the seeded statuses in id order.
func (r *Registry) Statuses() []domain.Reference {
	out := make([]domain.Reference, 0, len(r.statuses))
	for _, status := range domain.Statuses() {
		if name, ok := r.statuses[status]; ok {
			out = append(out, domain.Reference{ID: int(status), Name: name})
		}
	}
	return out
}
