package volunteer

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

type Repository interface {
	ListRoles(ctx context.Context, eventID string) ([]Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	CreateRole(ctx context.Context, role *Role) error
	AddSignup(ctx context.Context, roleID, userID string) (*Role, error)
	RemoveSignup(ctx context.Context, roleID, userID string) (*Role, error)
}

type memoryRepository struct {
	mu    sync.RWMutex
	order []string
	roles map[string]*Role
}

// NewMemoryRepository keeps roles for the process lifetime.
func NewMemoryRepository(seed []Role) Repository {
	r := &memoryRepository{roles: make(map[string]*Role, len(seed))}
	for i := range seed {
		role := cloneRole(seed[i])
		r.order = append(r.order, role.ID)
		r.roles[role.ID] = &role
	}
	return r
}

func cloneRole(r Role) Role {
	r.Shifts = append([]string{}, r.Shifts...)
	r.Signups = append([]string{}, r.Signups...)
	return r
}

func (r *memoryRepository) ListRoles(_ context.Context, eventID string) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Role, 0, len(r.order))
	for _, id := range r.order {
		role := r.roles[id]
		if eventID != "" && role.EventID != eventID {
			continue
		}
		out = append(out, cloneRole(*role))
	}
	return out, nil
}

func (r *memoryRepository) GetRoleByID(_ context.Context, id string) (*Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[id]
	if !ok {
		return nil, ErrRoleNotFound
	}
	out := cloneRole(*role)
	return &out, nil
}

func (r *memoryRepository) CreateRole(_ context.Context, role *Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role.ID == "" {
		role.ID = strconv.Itoa(len(r.order) + 1)
	}
	if _, exists := r.roles[role.ID]; exists {
		return ErrInvalidRole
	}
	stored := cloneRole(*role)
	r.order = append(r.order, stored.ID)
	r.roles[stored.ID] = &stored
	return nil
}

// AddSignup increments the volunteer count when a position is open.
func (r *memoryRepository) AddSignup(_ context.Context, roleID, userID string) (*Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[roleID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	if contains(role.Signups, userID) {
		return nil, ErrAlreadySignedUp
	}
	if role.Filled() {
		return nil, ErrRoleFilled
	}
	role.Signups = append(role.Signups, userID)
	sort.Strings(role.Signups)
	role.Volunteers++

	out := cloneRole(*role)
	return &out, nil
}

// RemoveSignup decrements the volunteer count for an existing sign-up.
func (r *memoryRepository) RemoveSignup(_ context.Context, roleID, userID string) (*Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	role, ok := r.roles[roleID]
	if !ok {
		return nil, ErrRoleNotFound
	}
	idx := indexOf(role.Signups, userID)
	if idx < 0 {
		return nil, ErrNotSignedUp
	}
	role.Signups = append(role.Signups[:idx], role.Signups[idx+1:]...)
	if role.Volunteers > 0 {
		role.Volunteers--
	}

	out := cloneRole(*role)
	return &out, nil
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
