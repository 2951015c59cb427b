// Package repotest provides an in-memory role repository for tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/user-service-ext/internal/domain/entity"
	"github.com/oksasatya/user-service-ext/internal/domain/repository"
)

type RoleRepository struct {
	mu    sync.Mutex
	roles map[string]entity.Role
	// Err, when set, is returned by every call.
	Err error
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{roles: map[string]entity.Role{}}
}

func (r *RoleRepository) Create(_ context.Context, doc *entity.Role) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	role := *doc
	role.ID = primitive.NewObjectID()
	role.CreatedAt = time.Now().UTC()
	role.UpdatedAt = role.CreatedAt
	r.roles[role.ID.Hex()] = role
	return &role, nil
}

func (r *RoleRepository) FindWithPagination(_ context.Context, q repository.Query) (*repository.Page[entity.Role], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	all := make([]entity.Role, 0, len(r.roles))
	for _, role := range r.roles {
		all = append(all, role)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() < all[j].ID.Hex() })

	page, limit, skip := q.Window()
	start := len(all)
	if skip < int64(len(all)) {
		start = int(skip)
	}
	end := len(all)
	if limit < end-start {
		end = start + limit
	}
	return &repository.Page[entity.Role]{
		Items:   all[start:end],
		Total:   int64(len(all)),
		Page:    page,
		Limit:   limit,
		HasNext: end < len(all),
	}, nil
}

func (r *RoleRepository) Update(_ context.Context, id string, patch repository.Patch) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	role, ok := r.roles[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %q", repository.ErrNotFound, id)
	}
	if v, ok := patch["permissions"]; ok {
		role.Permissions, _ = v.([]string)
	}
	role.UpdatedAt = time.Now().UTC()
	r.roles[id] = role
	return &role, nil
}

func (r *RoleRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	if _, ok := r.roles[id]; !ok {
		return false, nil
	}
	delete(r.roles, id)
	return true, nil
}

func (r *RoleRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roles)
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
